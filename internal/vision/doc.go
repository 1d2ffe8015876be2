// Package vision owns the image-classification workflow behind the page:
// one model loaded at startup, per-visitor sessions, and the transitions
// between them. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: State, Prediction, LoadOptions, View.
//   - adapter_iface.go: Runtime and Model, the narrow capability surface of a model runtime.
//   - errors.go: error types and helpers (IsModelNotReady, IsDecode, IsSuperseded).
//   - load.go: asynchronous model loading with progress.
//   - ingest.go: upload → ImageSource (data URL) and request tokens.
//   - classify.go: decode + top-K classification, stale results discarded by token.
//   - session.go: expiring in-memory session store.
//   - datauri.go: data URL encoding/decoding.
//   - topk.go: result normalisation (sort, truncate, clamp).
//   - status_report.go: Status/View reporting helpers.
//   - events.go, eventpub_memory.go: lifecycle events.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New/NewWithConfig, Start, Ready, View, Ingest,
// Classify, ClassifyImage, Status).
package vision
