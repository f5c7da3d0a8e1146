package agent

import (
	"context"
	"iter"
	"sync"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// scriptedLLM returns queued replies in order and records every request.
type scriptedLLM struct {
	mu       sync.Mutex
	replies  []scriptedReply
	requests []*model.LLMRequest
}

type scriptedReply struct {
	text string
	err  error
}

func (s *scriptedLLM) Name() string { return "scripted" }

func (s *scriptedLLM) GenerateContent(_ context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		s.mu.Lock()
		s.requests = append(s.requests, req)
		var next scriptedReply
		if len(s.replies) > 0 {
			next = s.replies[0]
			s.replies = s.replies[1:]
		}
		s.mu.Unlock()

		if next.err != nil {
			yield(nil, next.err)
			return
		}
		yield(&model.LLMResponse{Content: genai.NewContentFromText(next.text, genai.RoleModel)}, nil)
	}
}

func (s *scriptedLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}
