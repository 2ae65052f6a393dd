package engine

type cmdKind int

const (
	cmdSubmit cmdKind = iota
	cmdCancel
	cmdDepth
	cmdLookup
)

type command struct {
	kind  cmdKind
	order Order  // cmdSubmit
	id    string // cmdCancel, cmdLookup
	depth int    // cmdDepth

	resp chan response
}

type response struct {
	result *SubmitResult
	order  Order
	bids   []LevelSnapshot
	asks   []LevelSnapshot
	err    error
}
