package contentcmd

// FeatureGates exposes runtime feature toggles required by content command
// handlers. Callers supply closures that read from the module configuration so
// handlers stay decoupled from it while honouring feature flags.
type FeatureGates struct {
	ImportEnabled func() bool
	ExportEnabled func() bool
}

func (g FeatureGates) importEnabled() bool {
	if g.ImportEnabled == nil {
		return true
	}
	return g.ImportEnabled()
}

func (g FeatureGates) exportEnabled() bool {
	if g.ExportEnabled == nil {
		return true
	}
	return g.ExportEnabled()
}
