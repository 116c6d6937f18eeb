// Package staging owns the ordered list of input files waiting to be turned
// into a job.
//
// List is the in-memory model: files are appended in selection order, can be
// removed or swapped with a neighbour, and are consumed from the front when a
// job is submitted. Observers registered with Subscribe receive a View after
// every change so renderers can redraw the list, including which rows can
// still move up or down.
//
// Store persists a List in SQLite so separate CLI invocations share one
// staging area. Store.Update holds an exclusive lock file for the whole
// load-mutate-save cycle and only saves when the mutation succeeds.
package staging
