package job

// Dimensions is the physical size of a generated model in millimetres.
type Dimensions struct {
	X float64
	Y float64
	Z float64
}

// Spec is one of SVG, STL, ThreeMF, Backed3MF or Stacked3MF.
type Spec interface {
	Kind() Kind
	applyMeta(*Meta)
}

// SVG traces the first staged image into a vector outline.
type SVG struct{}

// STL extrudes the first staged image into a mesh.
type STL struct {
	Dimensions
}

// ThreeMF extrudes the first staged image into a multi-colour 3MF.
type ThreeMF struct {
	Dimensions
}

// Backed3MF is ThreeMF with a black backing plate.
type Backed3MF struct {
	Dimensions
	BlackThickness float64
}

// Stacked3MF stacks every staged image, in order, into one 3MF.
type Stacked3MF struct {
	Dimensions
}

func (SVG) Kind() Kind        { return KindSVG }
func (STL) Kind() Kind        { return KindSTL }
func (ThreeMF) Kind() Kind    { return Kind3MF }
func (Backed3MF) Kind() Kind  { return KindBacked3MF }
func (Stacked3MF) Kind() Kind { return KindStacked3MF }

func (SVG) applyMeta(*Meta) {}

func (s STL) applyMeta(m *Meta)        { s.Dimensions.applyMeta(m) }
func (s ThreeMF) applyMeta(m *Meta)    { s.Dimensions.applyMeta(m) }
func (s Stacked3MF) applyMeta(m *Meta) { s.Dimensions.applyMeta(m) }

func (s Backed3MF) applyMeta(m *Meta) {
	s.Dimensions.applyMeta(m)
	m.BlackThickness = float64Ptr(s.BlackThickness)
}

func (d Dimensions) applyMeta(m *Meta) {
	m.X = float64Ptr(d.X)
	m.Y = float64Ptr(d.Y)
	m.Z = float64Ptr(d.Z)
}

// SpecFor builds the Spec for kind from its metadata.
func SpecFor(kind Kind, dims Dimensions, blackThickness float64) (Spec, error) {
	switch kind {
	case KindSVG:
		return SVG{}, nil
	case KindSTL:
		return STL{Dimensions: dims}, nil
	case Kind3MF:
		return ThreeMF{Dimensions: dims}, nil
	case KindBacked3MF:
		return Backed3MF{Dimensions: dims, BlackThickness: blackThickness}, nil
	case KindStacked3MF:
		return Stacked3MF{Dimensions: dims}, nil
	default:
		return nil, ErrInvalidJobType
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}
