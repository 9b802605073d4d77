package style

// Pool owns one mutable instance of each directive kind. Each action
// overwrites every field of the instance it selects and returns it, so no
// value from an earlier call can leak into the result.
//
// The polygon, line and text instances share the pool's fill and stroke, so
// at most one directive from a Pool is meaningful at a time. A Pool must not
// be used from more than one goroutine.
type Pool struct {
	fill           Fill
	stroke         Stroke
	polygon        Polygon
	strokedPolygon Polygon
	line           Line
	text           Text
}

// NewPool allocates a [Pool].
func NewPool() *Pool {
	p := &Pool{}
	p.polygon.Fill = &p.fill
	p.strokedPolygon.Fill = &p.fill
	p.strokedPolygon.Stroke = &p.stroke
	p.line.Stroke = &p.stroke
	p.text.Fill = &p.fill
	p.text.Stroke = &p.stroke

	return p
}

// Fill selects the fill instance.
func (p *Pool) Fill(color string) *Fill {
	p.fill.Color = color

	return &p.fill
}

// Stroke selects the stroke instance.
func (p *Pool) Stroke(color string, width float64) *Stroke {
	p.stroke.Color = color
	p.stroke.Width = width

	return &p.stroke
}

// Polygon selects the unstroked polygon instance.
func (p *Pool) Polygon(fill string) *Polygon {
	p.fill.Color = fill

	return &p.polygon
}

// StrokedPolygon selects the stroked polygon instance.
func (p *Pool) StrokedPolygon(fill, stroke string, width float64) *Polygon {
	p.fill.Color = fill
	p.stroke.Color = stroke
	p.stroke.Width = width

	return &p.strokedPolygon
}

// Line selects the line instance.
func (p *Pool) Line(color string, width float64) *Line {
	p.stroke.Color = color
	p.stroke.Width = width

	return &p.line
}

// Text selects the text instance. The halo is drawn with the stroke.
func (p *Pool) Text(content, font, fill, halo string, haloWidth float64) *Text {
	p.text.Content = content
	p.text.Font = font
	p.fill.Color = fill
	p.stroke.Color = halo
	p.stroke.Width = haloWidth

	return &p.text
}
