package sitecmd

const (
	buildSiteMessageType = "blog.site.build"
	cleanSiteMessageType = "blog.site.clean"
)

// BuildSiteCommand triggers a full static site build. The zero value builds
// every published post with the configured options.
type BuildSiteCommand struct {
	// DryRun plans and renders without writing artifacts.
	DryRun bool `json:"dry_run,omitempty"`
	// Force rebuilds pages whose hash matches the build manifest.
	Force bool `json:"force,omitempty"`
	// IncludeDrafts renders draft posts too.
	IncludeDrafts bool `json:"include_drafts,omitempty"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// CleanSiteCommand wipes the generator output directory and, optionally, the
// local build cache.
type CleanSiteCommand struct {
	// PruneCache erases expired build cache entries after the clean.
	PruneCache bool `json:"prune_cache,omitempty"`
	// ResetCache clears the whole build cache after the clean.
	ResetCache bool `json:"reset_cache,omitempty"`
}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }
