package service

// ValidationResult splits a model selection into whitelisted and
// rejected SKUs. Approved preserves the selection order.
type ValidationResult struct {
	Approved []string
	Rejected []string
}

// ValidateSelection is the sole gate between model output and
// customer-visible product references. It is a pure set-membership
// check: a SKU is approved exactly when the most recent search put it
// on the whitelist. It knows nothing about WHY a SKU is absent; the
// whitelist's correctness belongs entirely to the search engine.
func ValidateSelection(selected, whitelist []string) ValidationResult {
	allowed := make(map[string]bool, len(whitelist))
	for _, sku := range whitelist {
		allowed[sku] = true
	}

	var result ValidationResult
	seen := make(map[string]bool, len(selected))
	for _, sku := range selected {
		if seen[sku] {
			continue
		}
		seen[sku] = true

		if allowed[sku] {
			result.Approved = append(result.Approved, sku)
		} else {
			result.Rejected = append(result.Rejected, sku)
		}
	}
	return result
}
