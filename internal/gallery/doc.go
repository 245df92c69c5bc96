// Package gallery is the stateful side of the evidence upload pipeline.
//
// A Controller owns the ordered list of upload items and the admission policy
// (capacity plus per-file validation done by the uploader). It turns user
// actions into upload attempts and folds attempt callbacks back into the list.
//
// # Scheduling
//
// Every Ingest call becomes a batch with its own FIFO and a single consumer
// goroutine, so at most one network call is in flight per batch while separate
// batches may overlap. A Retry is a batch of one. Callbacks are folded by item
// id only, which keeps overlapping batches from interfering.
//
// # Observers
//
// OnImagesChange receives the full ordered list of remote URLs of completed
// items whenever that list changes. OnItemsChange receives a full snapshot of
// the items after every change. Both are invoked synchronously and serialized;
// they must not call back into the Controller.
//
// # Cancellation
//
// Removing an item does not cancel its in-flight attempt. The attempt's final
// callback finds no matching item and is dropped.
package gallery
