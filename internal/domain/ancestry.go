package domain

// AncestryEdge is one row of the referral closure: the descendant sits
// Depth sponsor-hops below the ancestor. Depth 0 is the self row.
type AncestryEdge struct {
	AncestorID   int64 `json:"ancestor_id"`
	DescendantID int64 `json:"descendant_id"`
	Depth        int32 `json:"depth"`
}

// ClosureAuditReport summarizes anomalies found in the referral closure.
type ClosureAuditReport struct {
	DuplicateEdges  []AncestryEdge `json:"duplicate_edges"`
	MissingSelfRows []int64        `json:"missing_self_rows"` // member ids without a depth-0 row
}

func (r *ClosureAuditReport) Clean() bool {
	return len(r.DuplicateEdges) == 0 && len(r.MissingSelfRows) == 0
}
