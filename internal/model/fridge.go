package model

// Fridge belongs to exactly one user and owns its items.
type Fridge struct {
	ID     int64        `json:"id"`
	UserID int64        `json:"userId"`
	Items  []FridgeItem `json:"items"`
}

// FridgeItem is a quantity of a product stored in a fridge.
type FridgeItem struct {
	ID             int64    `json:"id"`
	FridgeID       int64    `json:"fridgeId"`
	Quantity       *int     `json:"quantity"`
	ExpirationDate *Date    `json:"expirationDate"`
	Product        *Product `json:"product"`
}

// ProductID returns the referenced product id, or 0 when there is none.
func (i FridgeItem) ProductID() int64 {
	if i.Product == nil {
		return 0
	}
	return i.Product.ID
}

// Product is a catalog entry with nutrition values per 100g.
type Product struct {
	ID              int64    `json:"id"`
	Name            *string  `json:"name"`
	CaloriesPer100g *float64 `json:"caloriesPer100g"`
	ProteinPer100g  *float64 `json:"proteinPer100g"`
	FatPer100g      *float64 `json:"fatPer100g"`
	CarbsPer100g    *float64 `json:"carbsPer100g"`
}
