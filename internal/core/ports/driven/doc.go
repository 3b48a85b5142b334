// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). The similarity engine only ever talks to
// collaborators such as embedding models, OCR, document extraction and
// persistence through these contracts.
package driven
