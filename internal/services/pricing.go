package services

import (
	"context"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single cart line.
const MaxQuantity = 10000

// MaxAmount is the largest line or order total a decimal(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// CartLine is one product reference and quantity submitted for ordering.
type CartLine struct {
	ProductID uint
	Quantity  int
}

// SnapshotLine is a cart line priced against the catalog at snapshot time.
type SnapshotLine struct {
	Product   models.Product
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Snapshot is a priced cart. OrderTotal is always the sum of the line totals.
type Snapshot struct {
	Lines      []SnapshotLine
	OrderTotal decimal.Decimal
}

// BuildSnapshot resolves every product in lines with one catalog lookup and
// freezes its current name and price. It never writes.
func BuildSnapshot(ctx context.Context, products repositories.ProductRepository, lines []CartLine) (*Snapshot, error) {
	if len(lines) == 0 {
		return nil, validationErrorf("order must contain at least one item")
	}

	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]bool, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, validationErrorf("quantity for product %d must be greater than 0", line.ProductID)
		}
		if line.Quantity > MaxQuantity {
			return nil, validationErrorf("quantity for product %d must be at most %d", line.ProductID, MaxQuantity)
		}
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	found, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	snapshot := &Snapshot{
		Lines:      make([]SnapshotLine, 0, len(lines)),
		OrderTotal: decimal.Zero,
	}
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: line.ProductID}
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		snapshot.Lines = append(snapshot.Lines, SnapshotLine{
			Product:   product,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			LineTotal: lineTotal,
		})
		snapshot.OrderTotal = snapshot.OrderTotal.Add(lineTotal)
	}
	if snapshot.OrderTotal.GreaterThan(MaxAmount) {
		return nil, validationErrorf("order total must be at most %s", MaxAmount.StringFixed(2))
	}

	return snapshot, nil
}

// newOrder turns a snapshot into an unsaved order aggregate.
func newOrder(customerID uint, shippingAddress string, snapshot *Snapshot) *models.Order {
	items := make([]models.OrderItem, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		items = append(items, models.OrderItem{
			ProductID:    line.Product.ID,
			ProductName:  line.Product.Name,
			ProductPrice: line.UnitPrice,
			Quantity:     line.Quantity,
			TotalPrice:   line.LineTotal,
		})
	}
	return &models.Order{
		CustomerID:      customerID,
		TotalAmount:     snapshot.OrderTotal,
		ShippingAddress: shippingAddress,
		Status:          models.OrderStatusPlaced,
		Items:           items,
	}
}
