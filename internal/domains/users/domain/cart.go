package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyProduct     = errors.New("product id is required")
	ErrEmptySize        = errors.New("size is required")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// Cart maps product id to size to quantity.
type Cart map[string]map[string]int

// Add increments the quantity of a product variant by one.
func (c Cart) Add(productID, size string) error {
	productID, size, err := cartKey(productID, size)
	if err != nil {
		return err
	}
	sizes, ok := c[productID]
	if !ok {
		sizes = map[string]int{}
		c[productID] = sizes
	}
	sizes[size]++
	return nil
}

// Set overwrites the quantity of a product variant. Zero removes it.
func (c Cart) Set(productID, size string, quantity int) error {
	productID, size, err := cartKey(productID, size)
	if err != nil {
		return err
	}
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	if quantity == 0 {
		if sizes, ok := c[productID]; ok {
			delete(sizes, size)
			if len(sizes) == 0 {
				delete(c, productID)
			}
		}
		return nil
	}
	sizes, ok := c[productID]
	if !ok {
		sizes = map[string]int{}
		c[productID] = sizes
	}
	sizes[size] = quantity
	return nil
}

// Count sums every quantity in the cart.
func (c Cart) Count() int {
	total := 0
	for _, sizes := range c {
		for _, qty := range sizes {
			total += qty
		}
	}
	return total
}

// Clone returns a deep copy.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for productID, sizes := range c {
		copied := make(map[string]int, len(sizes))
		for size, qty := range sizes {
			copied[size] = qty
		}
		out[productID] = copied
	}
	return out
}

func cartKey(productID, size string) (string, string, error) {
	productID = strings.TrimSpace(productID)
	size = strings.TrimSpace(size)
	if productID == "" {
		return "", "", ErrEmptyProduct
	}
	if size == "" {
		return "", "", ErrEmptySize
	}
	return productID, size, nil
}
