package markup

import "strings"

// Anchor names one of nine screen positions a panel can snap to.
// AnchorNone means the panel was not given a position.
type Anchor int

const (
	AnchorNone Anchor = iota
	AnchorTopLeft
	AnchorTopCenter
	AnchorTopRight
	AnchorCenterLeft
	AnchorCenter
	AnchorCenterRight
	AnchorBottomLeft
	AnchorBottomCenter
	AnchorBottomRight
)

// ParseAnchor reads a position keyword. Dashes and underscores are
// treated as spaces, so "top-left", "top_left", and "topleft" are all
// accepted. Unknown non-empty input falls back to center.
func ParseAnchor(text string) Anchor {
	v := strings.ToLower(strings.TrimSpace(text))
	v = strings.ReplaceAll(v, "-", " ")
	v = strings.ReplaceAll(v, "_", " ")

	switch v {
	case "":
		return AnchorNone
	case "top left", "topleft":
		return AnchorTopLeft
	case "top center", "topcenter", "top":
		return AnchorTopCenter
	case "top right", "topright":
		return AnchorTopRight
	case "center left", "centerleft", "left":
		return AnchorCenterLeft
	case "center", "middle":
		return AnchorCenter
	case "center right", "centerright", "right":
		return AnchorCenterRight
	case "bottom left", "bottomleft":
		return AnchorBottomLeft
	case "bottom center", "bottomcenter", "bottom":
		return AnchorBottomCenter
	case "bottom right", "bottomright":
		return AnchorBottomRight
	default:
		return AnchorCenter
	}
}

// String returns the canonical keyword for the anchor.
func (a Anchor) String() string {
	switch a {
	case AnchorTopLeft:
		return "top-left"
	case AnchorTopCenter:
		return "top-center"
	case AnchorTopRight:
		return "top-right"
	case AnchorCenterLeft:
		return "center-left"
	case AnchorCenter:
		return "center"
	case AnchorCenterRight:
		return "center-right"
	case AnchorBottomLeft:
		return "bottom-left"
	case AnchorBottomCenter:
		return "bottom-center"
	case AnchorBottomRight:
		return "bottom-right"
	default:
		return "none"
	}
}
