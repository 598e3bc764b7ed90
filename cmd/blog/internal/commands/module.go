package commands

import (
	blog "github.com/goliatone/go-blog"
	contentcmd "github.com/goliatone/go-blog/internal/commands/content"
	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
)

// importOptions are the defaults every read-style command imports with.
func importOptions(includeDrafts bool) blog.ImportOptions {
	return blog.ImportOptions{
		UpdateExisting: true,
		IncludeDrafts:  includeDrafts,
	}
}

// newModule constructs the blog module from the resolved configuration.
func newModule(cfg blog.Config) (*blog.Module, error) {
	return blog.New(cfg)
}

// contentHandlers wires the import and export command handlers for a module.
func contentHandlers(module *blog.Module) (*contentcmd.HandlerSet, error) {
	return contentcmd.RegisterContentCommands(nil, module.Markdown(), module.Export(), module.Logger(), contentcmd.FeatureGates{})
}

// siteHandlers wires the build and clean command handlers for a module.
func siteHandlers(module *blog.Module) (*sitecmd.HandlerSet, error) {
	var cache sitecmd.BuildCache
	if c := module.BuildCache(); c != nil {
		cache = c
	}
	return sitecmd.RegisterSiteCommands(nil, module.Generator(), cache, module.Logger(), sitecmd.FeatureGates{})
}
