package model

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Display struct {
	ID     int64 `json:"id"`
	Origin Point `json:"origin"`
	Size   Size  `json:"size"`
}

type WindowAttributes struct {
	Opacity         float64 `json:"opacity"`
	Size            Size    `json:"size"`
	Position        Point   `json:"position"`
	ClickThrough    bool    `json:"clickThrough"`
	CaptureExcluded bool    `json:"captureExcluded"`
	Visible         bool    `json:"visible"`
}

// OverlayOptions 为粘性选项：每次 overlay:show 只覆盖显式给出的字段
type OverlayOptions struct {
	Opacity      *float64 `json:"opacity,omitempty"`
	ClickThrough *bool    `json:"clickThrough,omitempty"`
	Width        *int     `json:"width,omitempty"`
	Height       *int     `json:"height,omitempty"`
	X            *int     `json:"x,omitempty"`
	Y            *int     `json:"y,omitempty"`
	DisplayID    *int64   `json:"displayId,omitempty"`
}

// Merge 返回以 o 为基础、用 other 中非空字段覆盖后的选项
func (o OverlayOptions) Merge(other OverlayOptions) OverlayOptions {
	if other.Opacity != nil {
		o.Opacity = other.Opacity
	}
	if other.ClickThrough != nil {
		o.ClickThrough = other.ClickThrough
	}
	if other.Width != nil {
		o.Width = other.Width
	}
	if other.Height != nil {
		o.Height = other.Height
	}
	if other.X != nil {
		o.X = other.X
	}
	if other.Y != nil {
		o.Y = other.Y
	}
	if other.DisplayID != nil {
		o.DisplayID = other.DisplayID
	}
	return o
}
