package hilbert

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jbeda/geom"
)

type EventKind int

const (
	LayerStart EventKind = iota
	Travel
	Extrude
	ExtrudeVertical
	Dwell
	FanOn
	FilamentChange
	ProgressMark
)

func (k EventKind) String() string {
	switch k {
	case LayerStart:
		return "layer"
	case Travel:
		return "travel"
	case Extrude:
		return "extrude"
	case ExtrudeVertical:
		return "extrude-vertical"
	case Dwell:
		return "dwell"
	case FanOn:
		return "fan"
	case FilamentChange:
		return "filament-change"
	case ProgressMark:
		return "progress"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Phase says which part of the print a move belongs to.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseBorder
	PhaseIntro
	PhaseMain
	PhaseOutro
)

// Event is one step of the toolpath, in machine coordinates (mm).
type Event struct {
	Kind  EventKind
	Pos   mgl64.Vec3 // target of a move; current position otherwise
	E     float64    // filament fed during the move
	Layer int
	Phase Phase

	// Step is set on curve steps, which are timed by step count. Every other
	// event is timed by Minutes.
	Step    bool
	Minutes float64

	Progress Progress
}

// Toolpath is the complete, validated event stream of a print.
type Toolpath struct {
	Config       Config
	Events       []Event
	TotalMinutes float64
	Steps        int
	Filament     float64   // mm
	Footprint    geom.Rect // extent of the curve moves, mm
	Border       geom.Rect // skirt rectangle, mm; equal to Footprint without a skirt
}

// Plan runs the whole pipeline for cfg. It returns an error without a
// toolpath if the config is invalid or any geometric invariant fails.
func Plan(cfg Config) (*Toolpath, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	side := Side(cfg.Exponent)
	main := Generate(cfg.Exponent)
	first := main
	introLen := 0
	if cfg.IntroExponent > 0 {
		intro := Generate(cfg.IntroExponent)
		introLen = len(intro)
		first = Compose(main, intro, side)
	}

	p := &planner{cfg: cfg}
	p.footprint(side, Side(cfg.IntroExponent))
	if err := p.checkBed(); err != nil {
		return nil, err
	}

	p.drawBorder()
	if cfg.IntroDwell > 0 {
		p.add(Event{Kind: Dwell, Pos: p.pos, Minutes: cfg.IntroDwell, Phase: PhaseBorder})
	}

	var cursor PathCursor
	for layer := 0; layer < cfg.Layers; layer++ {
		seq, intro := main, 0
		if layer == 0 {
			seq, intro = first, introLen
		}

		pts, err := transformLayer(seq, layer, side)
		if err != nil {
			return nil, err
		}
		if err := CheckAdjacent(pts, layer); err != nil {
			return nil, err
		}
		if err := cursor.Continue(layer, pts[0]); err != nil {
			return nil, err
		}

		p.layer(layer, pts, intro, cursor.Detached())

		if intro > 0 {
			// the outro ends below the grid; layer 1 resumes the main curve
			cursor.Leave(pts[len(pts)-1-intro])
		} else {
			cursor.End(pts[len(pts)-1])
		}
	}

	return p.finish(), nil
}

// transformLayer is swapped out in tests to feed broken layers through Plan.
var transformLayer = TransformLayer

type planner struct {
	cfg    Config
	events []Event
	pos    mgl64.Vec3

	foot, border geom.Rect
}

func (p *planner) add(ev Event) {
	p.events = append(p.events, ev)
	p.pos = ev.Pos
}

func (p *planner) toMachine(c Coord, z float64) mgl64.Vec3 {
	return mgl64.Vec3{
		p.cfg.StartX + p.cfg.GridStep*float64(c.X),
		p.cfg.StartY + p.cfg.GridStep*float64(c.Y),
		z,
	}
}

func (p *planner) footprint(side, introSide int) {
	minY := 0
	if p.cfg.IntroExponent > 0 {
		minY = -introSide
	}
	lo := p.toMachine(Coord{0, minY}, 0)
	hi := p.toMachine(Coord{side - 1, side - 1}, 0)

	p.foot = geom.Rect{Min: geom.Coord{X: lo[0], Y: lo[1]}, Max: geom.Coord{X: lo[0], Y: lo[1]}}
	p.foot.ExpandToContainCoord(geom.Coord{X: hi[0], Y: hi[1]})

	pad := p.cfg.BorderPadding
	p.border = geom.Rect{
		Min: geom.Coord{X: p.foot.Min.X - pad, Y: p.foot.Min.Y - pad},
		Max: geom.Coord{X: p.foot.Max.X + pad, Y: p.foot.Max.Y + pad},
	}
}

func (p *planner) checkBed() error {
	b := p.border
	if b.Min.X < 0 || b.Min.Y < 0 || b.Max.X > p.cfg.BedWidth || b.Max.Y > p.cfg.BedDepth {
		return invalid("print area (%g,%g)-(%g,%g) does not fit on a %gx%g bed",
			b.Min.X, b.Min.Y, b.Max.X, b.Max.Y, p.cfg.BedWidth, p.cfg.BedDepth)
	}
	return nil
}

// travel moves without extruding.
func (p *planner) travel(to mgl64.Vec3, layer int) {
	dist := to.Sub(p.pos).Len()
	p.add(Event{Kind: Travel, Pos: to, Layer: layer, Minutes: dist / p.cfg.FeedRate})
}

// drawBorder draws the skirt loop around the footprint on the first layer.
func (p *planner) drawBorder() {
	if p.cfg.BorderPadding == 0 {
		return
	}
	z := p.cfg.LayerZ(0)
	b := p.border
	corners := []mgl64.Vec3{
		{b.Min.X, b.Min.Y, z},
		{b.Max.X, b.Min.Y, z},
		{b.Max.X, b.Max.Y, z},
		{b.Min.X, b.Max.Y, z},
		{b.Min.X, b.Min.Y, z},
	}
	p.travel(corners[0], 0)
	for _, c := range corners[1:] {
		dist := c.Sub(p.pos).Len()
		p.add(Event{
			Kind:    Extrude,
			Pos:     c,
			E:       dist * p.cfg.ExtrusionRate,
			Phase:   PhaseBorder,
			Minutes: dist / p.cfg.FeedRate,
		})
	}
}

// layer emits one layer of curve points. introLen is the length of the intro
// prefix (and of the outro suffix) on an extended layer.
func (p *planner) layer(layer int, pts []Coord, introLen int, detached bool) {
	cfg := p.cfg
	z := cfg.LayerZ(layer)
	p.add(Event{Kind: LayerStart, Pos: p.pos, Layer: layer})
	if cfg.FanLayer == layer {
		p.add(Event{Kind: FanOn, Pos: p.pos, Layer: layer})
	}

	start := p.toMachine(pts[0], z)
	if detached {
		p.travel(start, layer)
	} else {
		// same XY as the end of the previous layer: extrude straight up
		p.add(Event{
			Kind:    ExtrudeVertical,
			Pos:     start,
			E:       cfg.ExtrusionRate * cfg.LayerHeight,
			Layer:   layer,
			Minutes: cfg.LayerHeight / cfg.FeedRate,
		})
	}

	e := cfg.ExtrusionRate * cfg.GridStep
	outro := len(pts) - introLen
	for i := 1; i < len(pts); i++ {
		if cfg.FilamentChangeLayer == layer && cfg.FilamentChangeStep == i {
			p.add(Event{Kind: FilamentChange, Pos: p.pos, Layer: layer})
		}
		phase := PhaseMain
		if i < introLen {
			phase = PhaseIntro
		} else if i >= outro {
			phase = PhaseOutro
		}
		p.add(Event{
			Kind:  Extrude,
			Pos:   p.toMachine(pts[i], z),
			E:     e,
			Layer: layer,
			Phase: phase,
			Step:  true,
		})
	}
}

// finish totals the print time, then replays the events through a
// ProgressTracker and interleaves the progress records.
func (p *planner) finish() *Toolpath {
	spm := p.cfg.StepsPerMinute()

	dry := NewProgressTracker(0, spm)
	filament := 0.0
	for _, ev := range p.events {
		filament += ev.E
		if ev.Step {
			dry.Step()
		} else if ev.Minutes > 0 {
			dry.Advance(ev.Minutes)
		}
	}
	total := dry.Elapsed()

	tracker := NewProgressTracker(total, spm)
	events := make([]Event, 0, len(p.events)+int(total)+202)
	events = append(events, Event{Kind: ProgressMark, Progress: tracker.Start()})
	for _, ev := range p.events {
		events = append(events, ev)

		var (
			rec Progress
			ok  bool
		)
		if ev.Step {
			rec, ok = tracker.Step()
		} else if ev.Minutes > 0 {
			rec, ok = tracker.Advance(ev.Minutes)
		}
		if ok {
			events = append(events, Event{Kind: ProgressMark, Pos: ev.Pos, Layer: ev.Layer, Progress: rec})
		}
	}

	return &Toolpath{
		Config:       p.cfg,
		Events:       events,
		TotalMinutes: total,
		Steps:        tracker.Steps(),
		Filament:     filament,
		Footprint:    p.foot,
		Border:       p.border,
	}
}
