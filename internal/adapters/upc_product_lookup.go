package adapters

import (
	"context"
	"errors"

	"simplyskin/internal/scans/ports"
	"simplyskin/internal/upc"
)

// UPCProductLookup resolves barcodes through the UPC database client.
type UPCProductLookup struct {
	client *upc.Client
}

// NewUPCProductLookup creates a new barcode lookup adapter.
func NewUPCProductLookup(client *upc.Client) *UPCProductLookup {
	return &UPCProductLookup{client: client}
}

// LookupBarcode maps upc.ErrNotFound to ports.ErrProductNotFound.
func (l *UPCProductLookup) LookupBarcode(ctx context.Context, code string) (ports.LookedUpProduct, error) {
	product, err := l.client.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, upc.ErrNotFound) {
			return ports.LookedUpProduct{}, ports.ErrProductNotFound
		}
		return ports.LookedUpProduct{}, err
	}
	return ports.LookedUpProduct{
		Title: product.Title,
		Brand: product.Brand,
		Image: product.Image,
	}, nil
}

// Compile-time check that UPCProductLookup implements ports.ProductLookup.
var _ ports.ProductLookup = (*UPCProductLookup)(nil)
