// vertex.go - vertex kick, shift rules and the 3-slot assembly queue
// (spec.md §3/§4.6 steps 1-5)
//
// Grounded on video_voodoo.go's triangle-setup path, which keeps the
// last two vertices around to turn a vertex stream into triangles;
// generalized here into the GS's fixed 3-slot shift register so every
// primitive topology (strip, fan, list, sprite, point, line) falls out
// of one shared queue instead of a per-topology accumulator.

package gs

// Vertex is one GS vertex-kick payload, fully decoded.
type Vertex struct {
	X, Y int32 // subpixel 12.4 fixed-point, offset-adjusted
	Z    int32 // truncated to 32 bits per the project's Z-precision decision
	Fog  uint8
	R, G, B, A uint8
	Q          float32
	S, T       float32 // FST=0: perspective-correct coordinates
	U, V       int32   // FST=1: 10.4 fixed-point coordinates
	FST        bool
}

// vertexQueueDepth is the GS's fixed vertex-assembly shift register
// depth: enough to hold a triangle's worth of vertices.
const vertexQueueDepth = 3

// VertexQueue is the fixed-capacity shift register backing every
// primitive topology. Push shifts the oldest vertex out once full.
type VertexQueue struct {
	slots [vertexQueueDepth]Vertex
	count int
	kicks int // kicks since the last reset or the last emitted Triangle/Sprite list primitive
}

func (q *VertexQueue) reset() {
	q.count = 0
	q.kicks = 0
}

func (q *VertexQueue) push(v Vertex) {
	if q.count < vertexQueueDepth {
		q.slots[q.count] = v
		q.count++
	} else {
		q.slots[0] = q.slots[1]
		q.slots[1] = q.slots[2]
		q.slots[2] = v
	}
	q.kicks++
}

// ready reports whether the queue holds enough vertices to emit a
// primitive of the given type and, when it does, returns the
// degenerate-eligible vertex slice to hand to the drawing-kick pipeline
// (spec.md §4.6 steps 1-2).
func (q *VertexQueue) ready(pt PrimType) ([]Vertex, bool) {
	switch pt {
	case PrimPoint:
		if q.count < 1 {
			return nil, false
		}
		return q.slots[q.count-1 : q.count], true
	case PrimLine:
		if q.kicks < 2 {
			return nil, false
		}
		return q.last(2), true
	case PrimLineStrip:
		if q.count < 2 {
			return nil, false
		}
		return q.last(2), true
	case PrimTriangle:
		if q.kicks < 3 {
			return nil, false
		}
		v := q.last(3)
		q.kicks = 0
		return v, true
	case PrimTriangleStrip, PrimTriangleFan:
		if q.count < 3 {
			return nil, false
		}
		return q.last(3), true
	case PrimSprite:
		if q.kicks < 2 {
			return nil, false
		}
		v := q.last(2)
		q.kicks = 0
		return v, true
	default:
		return nil, false
	}
}

func (q *VertexQueue) last(n int) []Vertex {
	return q.slots[q.count-n : q.count]
}

// isDegenerate reports whether a kick should be eliminated before any
// state is touched, per spec.md §4.6 step 1. Beyond the geometric
// zero-area case, a draw is also degenerate when nothing it does can
// possibly reach VRAM: the scissor names no pixels, the depth test is
// enabled and pinned to NEVER with depth writes masked, the alpha test
// is pinned to NEVER+KEEP, or both the Z and color writes are masked.
func isDegenerate(pt PrimType, v []Vertex, scissor SCISSOR, test TEST, zbuf ZBUF, frame FRAME) bool {
	if scissor.empty() {
		return true
	}
	if test.ZTE() && test.ZTST() == DepthTestNever && zbuf.ZMSK() {
		return true
	}
	if test.ATE() && test.ATST() == AlphaTestNever && test.AFAIL() == AlphaFailKeep {
		return true
	}
	if zbuf.ZMSK() && frame.FBMSK() == 0xFFFFFFFF {
		return true
	}

	switch pt {
	case PrimTriangle, PrimTriangleStrip, PrimTriangleFan:
		if len(v) < 3 {
			return true
		}
		return (v[0].X == v[1].X && v[0].Y == v[1].Y) ||
			(v[1].X == v[2].X && v[1].Y == v[2].Y) ||
			(v[0].X == v[2].X && v[0].Y == v[2].Y)
	case PrimLine, PrimLineStrip:
		if len(v) < 2 {
			return true
		}
		return v[0].X == v[1].X && v[0].Y == v[1].Y
	case PrimSprite:
		if len(v) < 2 {
			return true
		}
		return v[0].X == v[1].X || v[0].Y == v[1].Y
	default:
		return false
	}
}

// vertexKick decodes one XYZ(F)2/3 register write into a Vertex,
// applies the active context's XYOFFSET, pushes it into the vertex
// queue and, once the active primitive type has enough vertices,
// forwards the assembled primitive to the attached Translator.
// continuation (the "3" variant) pushes the vertex, which counts toward
// the queue's kicks, but draws nothing: the GS's "vertex kick without
// drawing".
func (rf *RegisterFile) vertexKick(x, y int32, z uint32, f uint8, continuation bool) {
	ctx := rf.activeContext()
	off := rf.xyoffsetReg(ctx)
	rgbaq := RGBAQ(rf.RGBAQ)
	prim := rf.effectivePrim()

	v := Vertex{
		X:   x - off.OFX(),
		Y:   y - off.OFY(),
		Z:   int32(z),
		Fog: f,
		R:   rgbaq.R(), G: rgbaq.G(), B: rgbaq.B(), A: rgbaq.A(),
		Q:   rgbaq.Q(),
		FST: prim.FST(),
	}
	if v.FST {
		uv := UV(rf.UV)
		v.U, v.V = uv.U(), uv.V()
	} else {
		st := ST(rf.ST)
		v.S, v.T = st.S(), st.T()
	}

	if rf.tl == nil {
		return
	}
	rf.tl.onVertexKick(v, prim.PrimitiveType(), continuation)
}
