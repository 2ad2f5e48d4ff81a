/*
Package status records what a processing pass did to each file.

	+-------------+       +---------------+
	|   Report    | ----> | FileFormatter |
	| (Entries)   |       | (Messages)    |
	+-------------+       +---------------+

Every candidate gets exactly one Entry. Its Outcome is Succeeded,
SkippedUnreadable or SkippedUnwritable. A failed source removal does not
change the Outcome; it is kept apart in DeleteErr because the output was
already written in full.

🔍 Example:

	report := status.NewReport(time.Now())
	report.Add(status.Entry{Source: "a.bin", Output: "out/a.bin", Outcome: status.Succeeded})
	report.Finish(time.Now())

	if report.Failed() {
		// at least one file was skipped or left behind
	}
*/
package status
