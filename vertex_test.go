package gs

import "testing"

func v(x, y int32) Vertex { return Vertex{X: x, Y: y} }

func TestVertexQueueTriangleNeedsThreeKicks(t *testing.T) {
	var q VertexQueue
	q.push(v(0, 0))
	if _, ready := q.ready(PrimTriangle); ready {
		t.Fatal("triangle should not be ready after 1 kick")
	}
	q.push(v(1, 1))
	if _, ready := q.ready(PrimTriangle); ready {
		t.Fatal("triangle should not be ready after 2 kicks")
	}
	q.push(v(2, 2))
	verts, ready := q.ready(PrimTriangle)
	if !ready || len(verts) != 3 {
		t.Fatalf("triangle should be ready with 3 vertices after 3 kicks, got ready=%v len=%d", ready, len(verts))
	}
}

func TestVertexQueueTriangleListResetsAfterEachPrimitive(t *testing.T) {
	var q VertexQueue
	q.push(v(0, 0))
	q.push(v(1, 1))
	q.push(v(2, 2))
	if _, ready := q.ready(PrimTriangle); !ready {
		t.Fatal("first triangle should be ready")
	}
	// list semantics: kicks counter resets, so the very next vertex must
	// not complete a second triangle on its own.
	q.push(v(3, 3))
	if _, ready := q.ready(PrimTriangle); ready {
		t.Fatal("list primitive should require 3 fresh kicks per triangle")
	}
}

func TestVertexQueueStripKeepsLastTwo(t *testing.T) {
	var q VertexQueue
	q.push(v(0, 0))
	q.push(v(1, 0))
	q.push(v(2, 0))
	verts, ready := q.ready(PrimTriangleStrip)
	if !ready || len(verts) != 3 {
		t.Fatalf("strip should be ready with 3 vertices, got ready=%v len=%d", ready, len(verts))
	}
	if verts[2].X != 2 {
		t.Fatalf("strip's most recent vertex should be the last pushed, got X=%d", verts[2].X)
	}
	q.push(v(3, 0))
	verts, ready = q.ready(PrimTriangleStrip)
	if !ready || verts[0].X != 1 || verts[1].X != 2 || verts[2].X != 3 {
		t.Fatalf("a fourth strip vertex should shift out the oldest and keep the last two, got ready=%v verts=%+v", ready, verts)
	}
}

func TestVertexQueueSpriteNeedsTwoKicks(t *testing.T) {
	var q VertexQueue
	q.push(v(0, 0))
	if _, ready := q.ready(PrimSprite); ready {
		t.Fatal("sprite should not be ready after 1 kick")
	}
	q.push(v(10, 10))
	verts, ready := q.ready(PrimSprite)
	if !ready || len(verts) != 2 {
		t.Fatalf("sprite should be ready with 2 vertices after 2 kicks, got ready=%v len=%d", ready, len(verts))
	}
}

func TestVertexQueuePushShiftsOnceFull(t *testing.T) {
	var q VertexQueue
	q.push(v(0, 0))
	q.push(v(1, 0))
	q.push(v(2, 0))
	q.push(v(3, 0)) // overflow: slot 0 shifts out
	if q.count != vertexQueueDepth {
		t.Fatalf("count = %d, want %d", q.count, vertexQueueDepth)
	}
	if q.slots[2].X != 3 {
		t.Fatalf("most recent slot should hold the last-pushed vertex, got X=%d", q.slots[2].X)
	}
	if q.slots[0].X != 1 {
		t.Fatalf("oldest surviving slot should be the second-pushed vertex, got X=%d", q.slots[0].X)
	}
}

func TestIsDegenerateTriangleSharedVertex(t *testing.T) {
	var scissor SCISSOR
	var test TEST
	var zbuf ZBUF
	var frame FRAME
	if !isDegenerate(PrimTriangle, []Vertex{v(0, 0), v(0, 0), v(5, 5)}, scissor, test, zbuf, frame) {
		t.Fatal("triangle with two coincident vertices should be degenerate")
	}
	if isDegenerate(PrimTriangle, []Vertex{v(0, 0), v(5, 0), v(0, 5)}, scissor, test, zbuf, frame) {
		t.Fatal("non-degenerate triangle misclassified as degenerate")
	}
}

func TestIsDegenerateSpriteZeroWidthOrHeight(t *testing.T) {
	var scissor SCISSOR
	var test TEST
	var zbuf ZBUF
	var frame FRAME
	if !isDegenerate(PrimSprite, []Vertex{v(10, 10), v(10, 20)}, scissor, test, zbuf, frame) {
		t.Fatal("sprite with equal X should be degenerate (zero width)")
	}
	if isDegenerate(PrimSprite, []Vertex{v(10, 10), v(20, 20)}, scissor, test, zbuf, frame) {
		t.Fatal("non-degenerate sprite misclassified as degenerate")
	}
}

func TestIsDegenerateScissorEmpty(t *testing.T) {
	// SCAX0=10 (bits 0-10), SCAX1=5 (bits 16-26): SCAX1 < SCAX0 is empty.
	empty := SCISSOR(10 | 5<<16)
	var test TEST
	var zbuf ZBUF
	var frame FRAME
	if !isDegenerate(PrimSprite, []Vertex{v(0, 0), v(20, 20)}, empty, test, zbuf, frame) {
		t.Fatal("empty scissor should make any kick degenerate")
	}
}

func TestIsDegenerateAlphaNeverKeep(t *testing.T) {
	var scissor SCISSOR
	var zbuf ZBUF
	var frame FRAME
	test := TEST(1) // ATE=1, ATST=AlphaTestNever(0), AFAIL=AlphaFailKeep(0)
	if !isDegenerate(PrimSprite, []Vertex{v(0, 0), v(20, 20)}, scissor, test, zbuf, frame) {
		t.Fatal("ATST=NEVER with AFAIL=KEEP should make any kick degenerate")
	}
}

func TestIsDegenerateBothWritesMasked(t *testing.T) {
	var scissor SCISSOR
	var test TEST
	zbuf := ZBUF(1 << 32) // ZMSK
	frame := FRAME(uint64(0xFFFFFFFF) << 32)
	if !isDegenerate(PrimSprite, []Vertex{v(0, 0), v(20, 20)}, scissor, test, zbuf, frame) {
		t.Fatal("Z and color writes both masked should make any kick degenerate")
	}
}

func TestIsDegenerateDepthNeverWithZWriteMasked(t *testing.T) {
	var scissor SCISSOR
	var frame FRAME
	test := TEST(1 << 16) // ZTE=1, ZTST=DepthTestNever(0)
	zbuf := ZBUF(1 << 32) // ZMSK (write disabled)
	if !isDegenerate(PrimSprite, []Vertex{v(0, 0), v(20, 20)}, scissor, test, zbuf, frame) {
		t.Fatal("ZTST=NEVER with Z write disabled should make any kick degenerate")
	}
}
