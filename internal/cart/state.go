package cart

import "fmt"

// EmptyMessage показывается вместо списка, когда корзина пуста
const EmptyMessage = "O carrinho está vazio."

// State — всё, что нужно для отрисовки страницы корзины
type State struct {
	Items     []ItemState
	Total     float64
	TotalText string
	Status    Status
	Error     string
	Empty     bool
	CanSubmit bool
}

// ItemState — карточка одной пиццы
type ItemState struct {
	Index     int
	Title     string
	Flavors   []string
	PriceText string
}

// State снимает состояние страницы; результат зависит только от корзины, статуса и ошибки
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := State{
		Items:     make([]ItemState, 0, len(v.items)),
		Total:     v.items.Total(),
		Status:    v.status,
		Error:     v.errMsg,
		Empty:     len(v.items) == 0,
		CanSubmit: len(v.items) > 0 && v.status != StatusSubmitting,
	}
	st.TotalText = fmt.Sprintf("R$ %.2f", st.Total)

	for i, item := range v.items {
		flavors := make([]string, 0, len(item.Flavors))
		for n, f := range item.Flavors {
			flavors = append(flavors, fmt.Sprintf("Sabor %d: %s", n+1, f.Name))
		}
		st.Items = append(st.Items, ItemState{
			Index:     i,
			Title:     "Pizza " + item.Size,
			Flavors:   flavors,
			PriceText: item.Price.String(),
		})
	}
	return st
}
