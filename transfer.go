// transfer.go - host<->local and local<->local VRAM transfer engine
// (spec.md §4.5)
//
// Grounded on memory_bus.go's DMA-style block-copy path (a pending
// transfer descriptor filled in by a few register writes, then drained
// by successive data writes); generalized here to the GS's three
// transfer directions and its HWREG-fed byte pump.

package gs

// pendingTransfer accumulates TRXPOS/TRXREG/BITBLTBUF/TRXDIR state
// until TRXDIR activates it, then tracks how many bytes HWREG has fed
// so far for a host-to-local transfer.
type pendingTransfer struct {
	active     bool
	dir        TransferDir
	srcBase    BITBLTBUF
	pos        TRXPOS
	reg        TRXREG
	hostBuf    []byte
	bytesTotal int
	bytesFed   int
}

func transferByteCount(reg TRXREG, psm PSM) int {
	bpp := bitsPerPixel(psm)
	pixels := reg.RRW() * reg.RRH()
	return (pixels*bpp + 7) / 8
}

// hwregWrite feeds one 64-bit HWREG payload (8 bytes, or fewer for the
// final partial word) into the active host-to-local transfer, flushing
// to the backend once the declared rectangle is fully received
// (spec.md §4.5's "HWREG pump").
func (rf *RegisterFile) hwregWrite(value uint64) {
	if rf.tl == nil || rf.tl.transfer == nil || !rf.tl.transfer.active {
		logger().Warnw("gs: HWREG write with no active transfer")
		return
	}
	t := rf.tl.transfer
	if t.dir != TransferHostToLocal {
		return
	}
	remaining := t.bytesTotal - t.bytesFed
	n := 8
	if remaining < n {
		n = remaining
	}
	var buf [8]byte
	for i := 0; i < n; i++ {
		buf[i] = byte(value >> (8 * i))
	}
	t.hostBuf = append(t.hostBuf, buf[:n]...)
	t.bytesFed += n

	if t.bytesFed >= t.bytesTotal {
		rf.tl.completeTransfer()
	}
}

// activateTransfer is called on a TRXDIR write: it latches the current
// BITBLTBUF/TRXPOS/TRXREG triple. A host-to-local transfer then waits
// for its HWREG payload; a local<->local copy runs at once; a
// local-to-host transfer marks its source pages as read and issues a
// TransferOverlapBarrier, and no data is returned to the host.
func (tl *Translator) activateTransfer() {
	rf := tl.rf

	// flush the previous partial transfer (spec.md §4.8 init_transfer)
	// before latching a new one: a host-to-local transfer that hadn't
	// received its full byte count yet still lands whatever bytes HWREG
	// already fed, rather than being silently dropped.
	if prev := tl.transfer; prev != nil && prev.active && prev.dir == TransferHostToLocal && prev.bytesFed < prev.bytesTotal {
		tl.completeTransfer()
	}

	dir := TRXDIR(rf.TRXDIR).XDIR()
	if dir == TransferDeactivated {
		tl.transfer = nil
		return
	}

	bb := BITBLTBUF(rf.BITBLTBUF)
	reg := TRXREG(rf.TRXREG)
	pos := TRXPOS(rf.TRXPOS)

	t := &pendingTransfer{
		active:  true,
		dir:     dir,
		srcBase: bb,
		pos:     pos,
		reg:     reg,
	}

	switch dir {
	case TransferHostToLocal:
		t.bytesTotal = transferByteCount(reg, bb.DPSM())
		tl.transfer = t
	case TransferLocalToHost:
		t.bytesTotal = transferByteCount(reg, bb.SPSM())
		tl.transfer = t
		tl.beginLocalToHost(t)
	case TransferLocalToLocal:
		tl.transfer = t
		tl.copyLocalToLocal(t)
		tl.transfer = nil
	}
}

func (tl *Translator) srcDstRects(t *pendingTransfer) (src, dst PageRect) {
	src = computePageRect(t.srcBase.SBP()*blocksPerPage, t.pos.SSAX(), t.pos.SSAY(), t.reg.RRW(), t.reg.RRH(), t.srcBase.SBW(), t.srcBase.SPSM())
	dst = computePageRect(t.srcBase.DBP()*blocksPerPage, t.pos.DSAX(), t.pos.DSAY(), t.reg.RRW(), t.reg.RRH(), t.srcBase.DBW(), t.srcBase.DPSM())
	return src, dst
}

// completeTransfer is invoked once a host-to-local transfer has
// received its full byte count: it marks the destination pages dirty,
// flushing a texture-hazard render pass first if necessary, then hands
// the bytes to the backend.
func (tl *Translator) completeTransfer() {
	t := tl.transfer
	_, dst := tl.srcDstRects(t)

	if tl.tracker.markTransferWrite(dst) {
		tl.flush(FlushReasonTextureHazard)
		tl.pass = nil
		tl.tracker.invalidateTextureCache(dst)
	}
	tl.clobberCLUTBanksOverlapping(dst)

	ctx := tl.ctx()
	if err := tl.backend.FlushHostVRAMCopy(ctx, t.dir, dst.BasePage, t.srcBase.DPSM(), t.srcBase.DBW(), t.pos.DSAX(), t.pos.DSAY(), t.reg.RRW(), t.reg.RRH(), t.hostBuf); err != nil {
		logger().Errorw("gs: host-to-local transfer failed", "err", err)
	}
	tl.transfer = nil
}

func (tl *Translator) beginLocalToHost(t *pendingTransfer) {
	src, _ := tl.srcDstRects(t)
	tl.tracker.markFBRead(src)
	ctx := tl.ctx()
	if err := tl.backend.TransferOverlapBarrier(ctx, src.pages()); err != nil {
		logger().Errorw("gs: local-to-host overlap barrier failed", "err", err)
	}
}

func (tl *Translator) copyLocalToLocal(t *pendingTransfer) {
	src, dst := tl.srcDstRects(t)
	if tl.tracker.markTransferCopy(src, dst) {
		tl.flush(FlushReasonCopyHazard)
		tl.pass = nil
		tl.tracker.invalidateTextureCache(dst)
	}

	ctx := tl.ctx()
	desc := CopyDesc{
		SrcBasePage: src.BasePage, DstBasePage: dst.BasePage,
		SrcPSM: t.srcBase.SPSM(), DstPSM: t.srcBase.DPSM(),
		SrcStride: t.srcBase.SBW(), DstStride: t.srcBase.DBW(),
		SrcX: t.pos.SSAX(), SrcY: t.pos.SSAY(),
		DstX: t.pos.DSAX(), DstY: t.pos.DSAY(),
		Width: t.reg.RRW(), Height: t.reg.RRH(),
	}
	if err := tl.backend.CopyVRAM(ctx, desc); err != nil {
		logger().Errorw("gs: local-to-local copy failed", "err", err)
	}
	tl.clobberCLUTBanksOverlapping(dst)
	tl.tracker.flushRenderPass(dst.pages())
}

// clobberCLUTBanksOverlapping marks any currently-bound palette bank
// dirty when a transfer or copy writes into its backing page, so the
// next TEX0 write with a nonzero CLD re-uploads instead of reusing a stale ring
// entry (spec.md §4.2's register_cached_clut_clobber).
func (tl *Translator) clobberCLUTBanksOverlapping(dst PageRect) {
	touched := make(map[int]struct{}, len(dst.pages()))
	for _, p := range dst.pages() {
		touched[p] = struct{}{}
	}
	for ctx := 0; ctx < 2; ctx++ {
		bank := tl.rf.texReg(ctx).CBP()
		page := (bank * blockSizeBytes) / pageSizeBytes
		if _, hit := touched[page]; hit {
			tl.tracker.registerCachedCLUTClobber(bank)
		}
	}
}
