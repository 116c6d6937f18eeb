// Package poll keeps local views of remote resources current.
//
// A Task fetches one resource and hands the snapshot to its Sink, which
// replaces whatever it rendered before. Overlapping refreshes of the same
// task share one fetch and one render through a singleflight group, so a
// view never mixes two snapshots. A Loop drives each task on its own
// goroutine: once at start, then on every tick, plus whenever RefreshAll is
// called. A slow or failing task never holds up the others.
package poll
