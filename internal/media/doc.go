// Package media defines the evidence file and upload item types shared by the
// validator, the upload orchestrator and the gallery controller.
//
// A File carries declared metadata (name, MIME type, size) together with the
// raw bytes. Declared metadata is what admission checks look at; the bytes are
// only read by transports.
//
// An Item is one row of the gallery: a File plus its preview reference,
// status, progress and the terminal outcome of its latest upload attempt.
package media
