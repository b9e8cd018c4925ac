package menu

import (
	"image"

	"github.com/google/uuid"

	"github.com/cardapio-project/cardapio/pkg/utils"
)

// Accept keeps the detections whose confidence is above threshold, clipping
// each box to bounds. Boxes that clip to nothing are dropped.
func Accept(detections []Detection, bounds image.Rectangle, threshold int) []Detection {
	frame := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	accepted := utils.Filter(detections, func(detection Detection) bool {
		return detection.Confidence > threshold && !detection.Box.Rect().Intersect(frame).Empty()
	})
	return utils.Map(accepted, func(detection Detection) Detection {
		clipped := detection.Box.Rect().Intersect(frame)
		return Detection{
			Text:       detection.Text,
			Box:        BoxFromRect(clipped, image.Rectangle{}),
			Confidence: detection.Confidence,
		}
	})
}

// Sampled builds template-mode blocks whose color comes straight from the image pixels.
func Sampled(detections []Detection, img image.Image) []TextBlock {
	return utils.Map(detections, func(detection Detection) TextBlock {
		return newTextBlock(detection, SampleColor(img, detection.Box), "")
	})
}

// Fuse merges each detection with the style of the band it starts in.
// A detection whose top edge lies strictly above TitleBandFraction of the
// image height takes the title style; everything else, including a detection
// exactly on the boundary, takes the item-list style. A missing label falls
// back to the other one, and an empty map to DefaultStyles.
func Fuse(detections []Detection, styles StyleMap, imageHeight int) []TextBlock {
	return utils.Map(detections, func(detection Detection) TextBlock {
		region := styles.lookup(BandAt(detection.Box.Y, imageHeight))
		return newTextBlock(detection, region.Color, region.FontName)
	})
}

// BandAt is the label of the horizontal band row y falls in.
func BandAt(y, imageHeight int) Label {
	if imageHeight > 0 && float64(y)/float64(imageHeight) < TitleBandFraction {
		return LabelTitle
	}
	return LabelItemList
}

func (s StyleMap) lookup(label Label) StyleRegion {
	if region, ok := s[label]; ok {
		return region
	}
	other := LabelItemList
	if label == LabelItemList {
		other = LabelTitle
	}
	if region, ok := s[other]; ok {
		return region
	}
	return DefaultStyles()[label]
}

func newTextBlock(detection Detection, color RGB, fontName string) TextBlock {
	return TextBlock{
		ID:                 uuid.NewString(),
		Text:               detection.Text,
		Box:                detection.Box,
		Confidence:         detection.Confidence,
		ApproxFontSize:     detection.Box.Height,
		Color:              color,
		FontNameSuggestion: fontName,
	}
}
