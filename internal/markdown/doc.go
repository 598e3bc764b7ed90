// Package markdown turns Markdown files with YAML frontmatter into blog
// documents. It covers parsing and metadata extraction, filesystem discovery,
// and the import workflow that feeds discovered documents into the post store.
package markdown
