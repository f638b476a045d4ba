// Package monday is the client for the monday.com GraphQL API.
//
// The print farm tracks its jobs as items on a single board: one row
// per job, with columns for the job status, the printer the job runs
// on, the print's total filament weight, and the running filament
// total that gets decremented as printing progresses.
//
// The client exposes exactly the two operations the sync needs: a read
// of the board's items and a write that subtracts an amount from an
// item's running total. Columns are addressed by column ID, never by
// position, so a reordering of the board does not silently change what
// gets matched or mutated.
package monday
