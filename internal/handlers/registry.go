package handlers

// AppHandlers groups every HTTP handler the router registers.
type AppHandlers struct {
	UserHandler     *UserHandler
	WorkHandler     *WorkHandler
	SubgroupHandler *SubgroupHandler
	PartHandler     *PartHandler
	ExpenseHandler  *ExpenseHandler
}
