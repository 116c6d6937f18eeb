// Package preflight provides readiness checks for the filesystem paths and
// the conversion service that relief depends on.
//
// "relief doctor" runs RunAll and prints each Result. The individual checks
// (CheckDirectoryAccess, CheckServer) are also usable on their own.
package preflight
