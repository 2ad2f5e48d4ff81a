/*
Package operation implements the processing pass.

	+-------------+
	|  Discovery  |
	| (List mask) |
	+------+------+
	       |
	+------+------+
	|  Transform  |
	|    (XOR)    |
	+------+------+
	       |
	+------+------+
	|   Naming    |
	| (Resolve)   |
	+------+------+
	       |
	+------+------+
	|   fileio    |
	| write / rm  |
	+-------------+

🔄 Flow, for every candidate in lexical order:
1. Read the whole file; on failure record SkippedUnreadable
2. XOR the buffer in place with the configured key
3. Resolve a collision-free output path
4. Write through a temporary file; on failure record SkippedUnwritable
5. With Delete set, remove the source; a failure is kept in DeleteErr

The source is only removed after its output is fully written. One file's
failure never aborts the pass.

🔍 Example:

	op, err := operation.NewProcessOperation(operation.Options{Config: cfg})
	if err != nil {
		return err
	}
	report, err := op.Execute(ctx)
*/
package operation
