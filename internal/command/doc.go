// Package command implements the interactive window command catalog.
//
// Commands arrive as a flat list of descriptors, each tagged as generic
// (available in every interactive window) or specialized (a language-specific
// override). Resolve merges the two sets by display name: a specialized
// command sharing a name with a generic command displaces it in place, while
// specialized names with no generic counterpart are discarded. The resolved
// set's name-space is therefore exactly the generic set's name-space.
//
// Classification is explicit rather than reflective: a YAML manifest maps
// declared command names to registered handler implementations at startup.
package command
