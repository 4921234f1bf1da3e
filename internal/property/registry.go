package property

import (
	"math"

	"style-engine/internal/value"
)

type px = value.Primitive

var (
	sizeConv    = length(lengthOpts{auto: true})
	maxSizeConv = length(lengthOpts{none: true, auto: true})
	marginConv  = length(lengthOpts{auto: true, negative: true})
	widthConv   = length(lengthOpts{})
	zero        = value.Pixels(0)
	unbounded   = math.Inf(1)
)

var (
	Display    = register("display", DisplayInline, false, DirtyLayout|DirtyVisual, keywords[DisplayMode](displayNames, map[string]DisplayMode{"inline-flex": DisplayFlex}))
	Visibility = register("visibility", Visible, true, DirtyVisual, keywords[VisibilityMode](visibilityNames, map[string]VisibilityMode{"collapse": Hidden}))
	Opacity    = register("opacity", 1.0, false, DirtyVisual, number(1))
	ZIndex     = register("z-index", 0, false, DirtyVisual, integer)
	FontSize   = register("font-size", value.Pixels(16), true, DirtyLayout|DirtyVisual, length(lengthOpts{}))
	Content    = register("content", "", false, DirtyLayout|DirtyContent, text)

	Color           = register("color", value.Color(0xff000000), true, DirtyVisual, color)
	BackgroundColor = register("background-color", value.Color(0), false, DirtyVisual, color)
	BorderColor     = register("border-color", value.Color(0xff000000), false, DirtyVisual, color)
	OutlineColor    = register("outline-color", value.Color(0xff000000), false, DirtyVisual, color)

	Width     = register("width", value.AutoSize, false, DirtyLayout, sizeConv)
	Height    = register("height", value.AutoSize, false, DirtyLayout, sizeConv)
	MinWidth  = register("min-width", zero, false, DirtyLayout, sizeConv)
	MinHeight = register("min-height", zero, false, DirtyLayout, sizeConv)
	MaxWidth  = register("max-width", value.AutoSize, false, DirtyLayout, maxSizeConv)
	MaxHeight = register("max-height", value.AutoSize, false, DirtyLayout, maxSizeConv)

	MarginTop    = register("margin-top", zero, false, DirtyLayout, marginConv)
	MarginRight  = register("margin-right", zero, false, DirtyLayout, marginConv)
	MarginBottom = register("margin-bottom", zero, false, DirtyLayout, marginConv)
	MarginLeft   = register("margin-left", zero, false, DirtyLayout, marginConv)

	PaddingTop    = register("padding-top", zero, false, DirtyLayout, widthConv)
	PaddingRight  = register("padding-right", zero, false, DirtyLayout, widthConv)
	PaddingBottom = register("padding-bottom", zero, false, DirtyLayout, widthConv)
	PaddingLeft   = register("padding-left", zero, false, DirtyLayout, widthConv)

	BorderTopWidth    = register("border-top-width", zero, false, DirtyLayout|DirtyVisual, widthConv)
	BorderRightWidth  = register("border-right-width", zero, false, DirtyLayout|DirtyVisual, widthConv)
	BorderBottomWidth = register("border-bottom-width", zero, false, DirtyLayout|DirtyVisual, widthConv)
	BorderLeftWidth   = register("border-left-width", zero, false, DirtyLayout|DirtyVisual, widthConv)

	OutlineTopWidth    = register("outline-top-width", zero, false, DirtyLayout|DirtyVisual, widthConv)
	OutlineRightWidth  = register("outline-right-width", zero, false, DirtyLayout|DirtyVisual, widthConv)
	OutlineBottomWidth = register("outline-bottom-width", zero, false, DirtyLayout|DirtyVisual, widthConv)
	OutlineLeftWidth   = register("outline-left-width", zero, false, DirtyLayout|DirtyVisual, widthConv)

	FlexDirection  = register("flex-direction", Row, false, DirtyLayout, keywords[Direction](directionNames, nil))
	FlexWrap       = register("flex-wrap", NoWrap, false, DirtyLayout, keywords[Wrap](wrapNames, nil))
	FlexGrow       = register("flex-grow", 0.0, false, DirtyLayout, number(unbounded))
	FlexShrink     = register("flex-shrink", 1.0, false, DirtyLayout, number(unbounded))
	FlexBasis      = register("flex-basis", value.AutoSize, false, DirtyLayout, sizeConv)
	Gap            = register("gap", zero, false, DirtyLayout, widthConv)
	JustifyContent = register("justify-content", JustifyFlexStart, false, DirtyLayout, keywords[Justify](justifyNames, map[string]Justify{"start": JustifyFlexStart, "end": JustifyFlexEnd}))
	AlignItems     = register("align-items", AlignStretch, false, DirtyLayout, alignItems)
	AlignSelf      = register("align-self", AlignAuto, false, DirtyLayout, alignSelf)
)

var alignSelf = keywords[Align](alignNames, map[string]Align{"start": AlignFlexStart, "end": AlignFlexEnd})

func alignItems(v any) (Align, error) {
	a, err := alignSelf(v)
	if err == nil && a == AlignAuto {
		return 0, invalid(v, "an alignment other than auto")
	}
	return a, err
}

// Rect groups the four sides of a box edge, clockwise from the top.
type Rect [4]*Property[px]

var (
	Margin  = Rect{MarginTop, MarginRight, MarginBottom, MarginLeft}
	Padding = Rect{PaddingTop, PaddingRight, PaddingBottom, PaddingLeft}
	Border  = Rect{BorderTopWidth, BorderRightWidth, BorderBottomWidth, BorderLeftWidth}
	Outline = Rect{OutlineTopWidth, OutlineRightWidth, OutlineBottomWidth, OutlineLeftWidth}
)
