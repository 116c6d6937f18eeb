// Package logs reads relief's log file for the `relief logs` command.
//
// Last returns the trailing lines of the file with bounded memory, ReadFrom
// resumes from a byte offset and only consumes complete lines, and Follow
// polls for appended lines until its context ends. Filter narrows output to
// lines carrying every requested term, typically a correlation id.
package logs
