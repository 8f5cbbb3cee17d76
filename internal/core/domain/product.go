package domain

// ProductKind tags which product a transaction targets.
type ProductKind string

const (
	ProductAccount ProductKind = "ACCOUNT"
	ProductCredit  ProductKind = "CREDIT"
)

// ProductRef is the resolved target of a transaction draft: exactly one of
// an account or a credit line. It is built once at the boundary from the
// draft's reference fields and matched on Kind everywhere after, so the
// engine never inspects the raw optional fields again.
type ProductRef struct {
	Kind ProductKind
	ID   string
}

// ResolveProduct inspects a draft's product references and returns the single
// target, or ok=false when zero or both references are populated.
func ResolveProduct(txn Transaction) (ProductRef, bool) {
	switch {
	case txn.AccountID != "" && txn.CreditID != "":
		return ProductRef{}, false
	case txn.AccountID != "":
		return ProductRef{Kind: ProductAccount, ID: txn.AccountID}, true
	case txn.CreditID != "":
		return ProductRef{Kind: ProductCredit, ID: txn.CreditID}, true
	default:
		return ProductRef{}, false
	}
}
