package cart

import "shopfront/internal/model"

// MergeLines combines an anonymous cart's lines into an account cart's
// lines. For products present in both, quantities are summed and the
// anonymous line's metadata wins: it reflects the user's latest browsing
// before login. Products present in only one cart are carried over
// unchanged, account lines first.
//
// MergeLines is pure and never aliases its inputs. Calling it twice with
// the same anonymous cart double-counts quantities; triggering the merge
// exactly once per login is the caller's contract.
func MergeLines(anon, account []model.CartLine) []model.CartLine {
	merged := make([]model.CartLine, len(account))
	copy(merged, account)

	for _, in := range anon {
		found := false
		for i := range merged {
			if merged[i].ProductID == in.ProductID {
				quantity := merged[i].Quantity + in.Quantity
				merged[i] = in
				merged[i].Quantity = quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, in)
		}
	}
	return merged
}
