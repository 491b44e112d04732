// Package theme resolves theme directories into their stylesheet,
// markup files, and asset root, and manages the active theme for the
// engine. Themes live under a themes directory, one directory per
// theme; an embedded default theme is materialized on first use so a
// fresh install renders something.
package theme
