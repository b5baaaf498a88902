package perception

import "sceneguard/internal/model"

// det builds a filtered detection whose box is centered on (cx, cy).
func det(label string, conf float64, cx, cy, frame int) model.FilteredDetection {
	box := model.Box{X1: cx - 10, Y1: cy - 10, X2: cx + 10, Y2: cy + 10}
	return model.FilteredDetection{
		RawDetection: model.RawDetection{Label: label, Confidence: conf, Box: box, FrameIndex: frame},
		Center:       box.Center(),
	}
}

func raw(label string, conf float64) model.RawDetection {
	return model.RawDetection{Label: label, Confidence: conf, Box: model.Box{X1: 10, Y1: 20, X2: 31, Y2: 41}}
}
