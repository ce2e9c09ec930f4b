package models

import (
	"bytes"
	"encoding/json"
)

// UnmarshalJSON accepts price and stock either as strings, the way forms
// send them, or as JSON numbers.
func (d *ProductDraft) UnmarshalJSON(data []byte) error {
	type Alias ProductDraft
	aux := struct {
		*Alias
		Price formValue `json:"price"`
		Stock formValue `json:"stock"`
	}{
		Alias: (*Alias)(d),
		Price: formValue(d.Price),
		Stock: formValue(d.Stock),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Price = string(aux.Price)
	d.Stock = string(aux.Stock)
	return nil
}

// formValue is a form field that may arrive as a JSON string or number.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = formValue(n.String())
	return nil
}
