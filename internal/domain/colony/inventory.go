package colony

type ItemStack struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// Inventory stores items in stacks. Food stacks are bounded by ColdStacks,
// every other stack by MaxStacks.
type Inventory struct {
	Stacks     []ItemStack `json:"stacks"`
	MaxStacks  int         `json:"max_stacks"`
	ColdStacks int         `json:"cold_stacks"`
}

func stackSize(def ItemDef) int {
	if def.StackSize <= 0 {
		return 1
	}
	return def.StackSize
}

func (inv *Inventory) Count(item string) int {
	total := 0
	for _, s := range inv.Stacks {
		if s.Item == item {
			total += s.Quantity
		}
	}
	return total
}

func (inv *Inventory) usedStacks(c Catalog) (generic, cold int) {
	for _, s := range inv.Stacks {
		def, _ := c.Item(s.Item)
		if def.Category == ItemCategoryFood {
			cold++
		} else {
			generic++
		}
	}
	return generic, cold
}

// Add stores up to qty units of item and returns how many were stored.
func (inv *Inventory) Add(c Catalog, item string, qty int) (int, error) {
	def, ok := c.Item(item)
	if !ok {
		return 0, ErrUnknownItem
	}
	if qty <= 0 {
		return 0, nil
	}
	size := stackSize(def)
	remaining := qty
	for i := range inv.Stacks {
		if remaining == 0 {
			break
		}
		s := &inv.Stacks[i]
		if s.Item != item || s.Quantity >= size {
			continue
		}
		put := min(size-s.Quantity, remaining)
		s.Quantity += put
		remaining -= put
	}

	generic, cold := inv.usedStacks(c)
	for remaining > 0 {
		if def.Category == ItemCategoryFood {
			if cold >= inv.ColdStacks {
				break
			}
			cold++
		} else {
			if generic >= inv.MaxStacks {
				break
			}
			generic++
		}
		put := min(size, remaining)
		inv.Stacks = append(inv.Stacks, ItemStack{Item: item, Quantity: put})
		remaining -= put
	}
	return qty - remaining, nil
}

// Remove takes qty units of item, emptying the latest stacks first. Nothing is
// removed when the stock is short.
func (inv *Inventory) Remove(item string, qty int) bool {
	if qty <= 0 {
		return true
	}
	if inv.Count(item) < qty {
		return false
	}
	remaining := qty
	for i := len(inv.Stacks) - 1; i >= 0 && remaining > 0; i-- {
		s := &inv.Stacks[i]
		if s.Item != item {
			continue
		}
		take := min(s.Quantity, remaining)
		s.Quantity -= take
		remaining -= take
	}
	inv.compact()
	return true
}

func (inv *Inventory) compact() {
	out := inv.Stacks[:0]
	for _, s := range inv.Stacks {
		if s.Quantity > 0 {
			out = append(out, s)
		}
	}
	inv.Stacks = out
}

// Missing lists the shortfall for each required item; empty when all are present.
func (inv *Inventory) Missing(required []ItemAmount) map[string]int {
	need := map[string]int{}
	for _, r := range required {
		need[r.Item] += r.Quantity
	}
	missing := map[string]int{}
	for item, qty := range need {
		if have := inv.Count(item); have < qty {
			missing[item] = qty - have
		}
	}
	return missing
}

func (inv *Inventory) removeAll(items []ItemAmount, times int) {
	for _, it := range items {
		inv.Remove(it.Item, it.Quantity*times)
	}
}

// OptimizeStacks regroups each item into the fewest full stacks, keeping the
// order in which items first appear.
func (inv *Inventory) OptimizeStacks(c Catalog) {
	order := make([]string, 0, len(inv.Stacks))
	totals := map[string]int{}
	for _, s := range inv.Stacks {
		if s.Quantity <= 0 {
			continue
		}
		if _, seen := totals[s.Item]; !seen {
			order = append(order, s.Item)
		}
		totals[s.Item] += s.Quantity
	}
	stacks := make([]ItemStack, 0, len(inv.Stacks))
	for _, item := range order {
		total := totals[item]
		size := total
		if def, ok := c.Item(item); ok {
			size = stackSize(def)
		}
		for total > 0 {
			put := min(size, total)
			stacks = append(stacks, ItemStack{Item: item, Quantity: put})
			total -= put
		}
	}
	inv.Stacks = stacks
}
