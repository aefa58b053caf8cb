package domain

// Node is the canonical tree node handed to rendering and selection code,
// independent of how the backend happened to name its fields.
//
// Enabled is only meaningful on trees produced by the selection marker (or
// derived from one); freshly mapped nodes leave it false.
type Node struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Code        string   `json:"code,omitempty"`
	Kind        NodeKind `json:"type,omitempty"`
	ParentID    *string  `json:"parentId"`
	IsActive    bool     `json:"isActive"`
	OrderNumber int      `json:"orderNumber"`
	DeletedAt   *string  `json:"deletedAt"`
	Path        string   `json:"path,omitempty"`

	CrudMenuID     *string `json:"cruMenuId,omitempty"`
	ProductID      *string `json:"productId,omitempty"`
	PriceAddon     float64 `json:"priceAddon,omitempty"`
	TrialAvailable bool    `json:"trialAvailable,omitempty"`
	TrialDays      int     `json:"trialDays,omitempty"`

	Enabled  bool    `json:"enabled"`
	Children []*Node `json:"children"`
}

// IsDeleted reports whether the node carries a soft-delete marker.
func (n *Node) IsDeleted() bool {
	return n != nil && n.DeletedAt != nil
}

// IsRoot reports whether the node has no parent reference. Nesting treats
// such nodes as top level.
func (n *Node) IsRoot() bool {
	return n.ParentID == nil
}

// ShallowCopy returns a copy of n that shares its Children slice.
// Callers that rewrite children must assign a fresh slice.
func (n *Node) ShallowCopy() *Node {
	c := *n
	return &c
}

// Label is the node's display text: its name, else its code.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.Code
}
