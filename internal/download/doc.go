package download

// Package download implements the transfer pipeline that streams a single
// recording from the device to local storage. It manages the task lifecycle,
// progress propagation to the presentation layer, cancellation, and
// write-once placement of the finished file.
