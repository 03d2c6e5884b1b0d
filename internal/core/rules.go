package core

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewReferenceIntegrityRule())
	engine.Register(NewTenancyLinkRule())
	engine.Register(NewManagerScopeRule())
	engine.Register(NewMaintenanceTransitionRule())
	return engine
}
