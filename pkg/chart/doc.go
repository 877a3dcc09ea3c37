// Package chart provides the stateful chart session that keeps a rendering
// surface in sync with waterfall data and options.
//
// # Lifecycle
//
// A [Session] moves through three states:
//
//	Uninitialized → Ready → Disposed
//
// [New] validates the options, prepares the bars with the [bridge] engine and
// allocates the [Surface] at the plot size plus margins. [Session.Redraw]
// clears the surface and draws the current layout. [Session.Update] replaces
// data and options wholesale and redraws only when the prepared bars
// actually changed. [Session.Dispose] detaches the surface; further calls
// fail with INVALID_STATE.
//
//	s, err := chart.New(surface, data, &chart.Patch{Scale: ptr(6)})
//	if err != nil {
//	    return err
//	}
//	defer s.Dispose()
//	if err := s.Redraw(); err != nil {
//	    return err
//	}
//	res, err := s.Update(&next, nil) // res.Redrawn reports whether anything was drawn
//
// # Options
//
// [Options] carries the full configuration; [Patch] is a partial one with
// pointer fields. Width and Height are always derived from Scale and
// AspectRatio. Patches merge shallowly: a patch that sets Margin replaces the
// entire margin. Use [WithMergeMode]([MergeDeep]) to merge margin sides
// individually instead.
//
// [bridge]: github.com/matzehuels/waterfall/pkg/bridge
package chart
