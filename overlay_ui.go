package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/downhill/ecs/component"
)

// Overlay is the centred panel shown before a run and after it ends. Its
// button queues the same press the keyboard would.
type Overlay struct {
	ui       *ebitenui.UI
	title    *widget.Text
	detail   *widget.Text
	button   *widget.Button
	state    component.GameStateKind
	hasState bool
}

func NewOverlay(input *Input) *Overlay {
	o := &Overlay{}

	// semi-transparent panel background
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 180})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255})

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	o.title = widget.NewText(
		widget.TextOpts.Text("", &hudFace, white),
		widget.TextOpts.WidgetOpts(center),
	)
	o.detail = widget.NewText(
		widget.TextOpts.Text("", &hudFace, color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}),
		widget.TextOpts.WidgetOpts(center),
	)
	o.button = widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnImg}),
		widget.ButtonOpts.Text("", &hudFace, btnTextColor),
		widget.ButtonOpts.WidgetOpts(center),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if o.state == component.StateCompleted {
				input.Queue(component.Input{RestartPressed: true})
				return
			}
			input.Queue(component.Input{JumpPressed: true})
		}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(o.title)
	panel.AddChild(o.detail)
	panel.AddChild(o.button)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	o.ui = &ebitenui.UI{Container: root}
	return o
}

// Sync rewrites the labels for the current run.
func (o *Overlay) Sync(state component.GameStateKind, score component.Score) {
	if o.hasState && o.state == state && state != component.StateCompleted {
		return
	}
	o.state, o.hasState = state, true
	switch state {
	case component.StateCompleted:
		o.title.Label = "Wiped out"
		if score.NewBest {
			o.title.Label = "New best run!"
		}
		o.detail.Label = fmt.Sprintf("%.0f m, %d pills  (best %.0f m)", score.Distance, score.Pills, score.BestDistance)
		o.button.Text().Label = "Again (R)"
	default:
		o.title.Label = "Downhill"
		o.detail.Label = "Space to jump, jump in the air to backflip"
		o.button.Text().Label = "Go (Space)"
	}
}

func (o *Overlay) Visible() bool {
	return o.hasState && o.state != component.StatePlaying
}

func (o *Overlay) Update() {
	o.ui.Update()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.ui.Draw(screen)
}
