package domain

// LineItem is one product entry in an order in progress. Amount is always
// derived from UnitPrice and RequestedQuantity; it is never set directly, so
// a stale value cannot survive a quantity or price edit.
type LineItem struct {
	Reference         string
	Designation       string
	UnitPrice         float64
	AvailableQuantity int
	RequestedQuantity int
	Amount            float64
}

func NewLineItem(reference, designation string, unitPrice float64, available, requested int) LineItem {
	item := LineItem{
		Reference:         reference,
		Designation:       designation,
		UnitPrice:         unitPrice,
		AvailableQuantity: available,
		RequestedQuantity: requested,
	}
	item.refreshAmount()
	return item
}

// SetQuantity changes the requested quantity and keeps Amount in step.
func (li *LineItem) SetQuantity(quantity int) {
	li.RequestedQuantity = quantity
	li.refreshAmount()
}

// SetUnitPrice changes the unit price and keeps Amount in step.
func (li *LineItem) SetUnitPrice(price float64) {
	li.UnitPrice = price
	li.refreshAmount()
}

func (li *LineItem) refreshAmount() {
	li.Amount = li.UnitPrice * float64(li.RequestedQuantity)
}
