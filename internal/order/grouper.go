package order

import "github.com/google/uuid"

// GroupByShop partitions resolved line items by owning shop. Groups come
// out in first-occurrence order and every item lands in exactly one group.
// Pure and total: empty input yields an empty slice.
func GroupByShop(items []ResolvedItem) []ShopGroup {
	groups := make([]ShopGroup, 0)
	index := make(map[uuid.UUID]int)

	for _, item := range items {
		i, ok := index[item.Shop.ID]
		if !ok {
			i = len(groups)
			index[item.Shop.ID] = i
			groups = append(groups, ShopGroup{Shop: item.Shop})
		}
		groups[i].Items = append(groups[i].Items, item.LineItem)
	}

	return groups
}
