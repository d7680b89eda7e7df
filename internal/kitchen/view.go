package kitchen

import (
	"strings"

	"kitchen_display/internal/models"
	"kitchen_display/pkg/kds"
)

// ShapeOrders turns stored orders into board views. Input order is kept
// (callers pass FIFO). With a category filter only the category's items are
// listed, and orders left without items are dropped.
func ShapeOrders(orders []models.Order, categoryID *uint) []kds.OrderView {
	views := make([]kds.OrderView, 0, len(orders))
	for _, order := range orders {
		items := make([]kds.ItemView, 0, len(order.Items))
		for _, item := range order.Items {
			if categoryID != nil && item.Product.CategoryID != *categoryID {
				continue
			}
			items = append(items, kds.ItemView{
				ID:       item.ID,
				Name:     item.Product.Name,
				Quantity: item.Quantity,
				Note:     item.Note,
				Status:   kds.Status(item.Status),
				Version:  item.Version,
			})
		}
		if categoryID != nil && len(items) == 0 {
			continue
		}

		views = append(views, kds.OrderView{
			ID:        order.ID,
			TableName: tableNames(order.Tables),
			CreatedAt: order.CreatedAt,
			Note:      order.Note,
			Status:    order.Status,
			Items:     items,
		})
	}
	return views
}

func tableNames(tables []models.Table) string {
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
