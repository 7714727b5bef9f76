// drawkick.go - the drawing-kick pipeline (spec.md §4.6)
//
// Grounded on video_voodoo.go's per-triangle submit path (setup,
// texture bind, state bind, submit) generalized into the GS's nine
// ordered steps, most notably the feedback classification step the
// teacher has no equivalent for: the GS lets a primitive read the very
// framebuffer it is about to write.

package gs

// FeedbackKind classifies whether a drawing kick samples from the
// framebuffer region it is about to render into (spec.md §4.6 step 2).
type FeedbackKind uint8

const (
	FeedbackNone FeedbackKind = iota
	FeedbackPixel
	FeedbackSliced
)

// onVertexKick runs the nine-step drawing-kick pipeline once the
// vertex queue has assembled a complete primitive.
func (tl *Translator) onVertexKick(v Vertex, pt PrimType, continuation bool) {
	tl.vq.push(v)
	if continuation {
		return
	}

	verts, ready := tl.vq.ready(pt)
	if !ready {
		return
	}

	ctx := tl.rf.activeContext()
	frame := tl.rf.frameReg(ctx)
	zbuf := tl.rf.zbufReg(ctx)
	scissor := tl.rf.scissorReg(ctx)
	test := TEST(tl.rf.testReg(ctx))
	prim := tl.rf.effectivePrim()

	// step 1: degenerate-draw elimination
	if isDegenerate(pt, verts, scissor, test, zbuf, frame) {
		tl.rf.dirty.mark(DirtyDegenerate)
		return
	}

	// step 2: feedback analysis
	feedback := tl.classifyFeedback(ctx, verts)

	// step 3: bounding box (derived from verts by RenderPass.addPrimitive)

	// step 4: FB-pointer recheck
	if tl.pass == nil {
		tl.pass = tl.newPass(frame, zbuf, scissor)
	} else if tl.pass.frame != frame || tl.pass.zbuf != zbuf {
		tl.flush(FlushReasonFBPointer)
		tl.pass = tl.newPass(frame, zbuf, scissor)
	}

	// step 5: texture pre-read
	tex := tl.rf.texReg(ctx)
	texIndex := -1
	if prim.TME() && feedback == FeedbackNone {
		texIndex = tl.resolveTexture(ctx)
	} else if feedback == FeedbackPixel {
		texIndex = tl.pass.internFeedback(feedbackSentinel(tl.rf.currentPaletteBank, tex.CSA()))
	} else if feedback == FeedbackSliced {
		tl.flush(FlushReasonTextureHazard)
		tl.pass = tl.newPass(frame, zbuf, scissor)
		texIndex = tl.resolveTexture(ctx)
	}

	// step 6: state-vector commit
	sv := buildStateVector(tl.rf)
	stateIndex := tl.pass.internState(sv)

	// step 7/8: texture descriptor + primitive template already folded
	// into texIndex and the PRIM value carried on the record.

	// step 9: emit
	fbRect := tl.kickPageRect(ctx, frame, verts)
	if tl.tracker.markFBWrite(fbRect) {
		tl.flush(FlushReasonTextureHazard)
		tl.tracker.invalidateTextureCache(fbRect)
		tl.pass = tl.newPass(frame, zbuf, scissor)
		stateIndex = tl.pass.internState(sv)
	}

	tl.pass.noteFlags(test, zbuf, prim, SCANMSK(tl.rf.SCANMSK), feedback, tex.PSM(), tex.CPSM())
	if tex.TBP0() == zbuf.ZBP() {
		tl.pass.isPotentialDepthFeedback = true
	}

	record := make([]Vertex, len(verts))
	copy(record, verts)
	tl.pass.addPrimitive(PrimitiveRecord{
		StateIndex:   stateIndex,
		TextureIndex: texIndex,
		Prim:         prim,
		Vertices:     record,
	})

	if tl.pass.overflowing() {
		tl.flush(FlushReasonOverflow)
		tl.pass = nil
	}
}

// classifyFeedback implements spec.md §4.6 step 2 from the register
// bindings alone: a textured draw whose TEX0.TBP0 equals FRAME.FBP
// classifies as Pixel feedback when the two PSMs match and as Sliced
// feedback when they differ; every other draw is None. Vertex positions
// and UVs are not consulted, so a same-format draw whose UVs do not map
// 1:1 onto its pixels still classifies as Pixel.
func (tl *Translator) classifyFeedback(ctx int, verts []Vertex) FeedbackKind {
	if !tl.rf.effectivePrim().TME() {
		return FeedbackNone
	}
	frame := tl.rf.frameReg(ctx)
	tex := tl.rf.texReg(ctx)
	if tex.TBP0() != frame.FBP() {
		return FeedbackNone
	}
	if tex.PSM() == frame.PSM() {
		return FeedbackPixel
	}
	return FeedbackSliced
}

func (tl *Translator) kickPageRect(ctx int, frame FRAME, verts []Vertex) PageRect {
	minX, minY, maxX, maxY := verts[0].X, verts[0].Y, verts[0].X, verts[0].Y
	for _, v := range verts[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	x, y := int(minX)>>4, int(minY)>>4
	w, h := int(maxX-minX)>>4+1, int(maxY-minY)>>4+1
	return computePageRect(frame.FBP()*blocksPerPage, x, y, w, h, frame.FBW(), frame.PSM())
}

// resolveTexture runs the cached-texture lookup/creation half of step
// 5: compute the descriptor, check the tracker for a hazard against
// its own pending writes, then hit or miss the cached-texture table.
func (tl *Translator) resolveTexture(ctx int) int {
	desc := buildTextureDescriptor(tl.rf)
	key := desc.TEX0Key ^ desc.TEX1Key<<1 ^ desc.ClampKey<<2

	tex0 := tl.rf.texReg(ctx)
	rect := computePageRect(tex0.TBP0()*blocksPerPage, 0, 0, tex0.TW(), tex0.TH(), tex0.TBW(), tex0.PSM())

	if tl.tracker.markTextureRead(rect) {
		tl.flush(FlushReasonTextureHazard)
		tl.pass = tl.newPass(tl.rf.frameReg(ctx), tl.rf.zbufReg(ctx), tl.rf.scissorReg(ctx))
	}

	if handle, ok := tl.tracker.findCachedTexture(key); ok {
		return tl.pass.internTexture(desc, key, handle)
	}

	pixels := tl.vram.Read(tex0.TBP0()*blockSizeBytes, rect.PageWidth*rect.PageHeight*pageSizeBytes)
	handle, err := tl.backend.CreateCachedTexture(tl.background, desc, pixels)
	if err != nil {
		logger().Errorw("gs: cached-texture creation failed", "err", err)
		return tl.pass.internTexture(desc, key, nil)
	}
	tl.tracker.registerCachedTexture(key, desc, handle, rect)
	return tl.pass.internTexture(desc, key, handle)
}
