package constants

// PageState tracks how far a page made it through the processing pipeline.
// FAILED is reachable from any state; the result built so far is still returned.
type PageState string

const (
	PageLoaded          PageState = "LOADED"
	PagePreprocessed    PageState = "PREPROCESSED"
	PageOCRDone         PageState = "OCR_DONE"
	PageNormalized      PageState = "NORMALIZED"
	PageFieldsExtracted PageState = "FIELDS_EXTRACTED"
	PageResultReady     PageState = "RESULT_READY"
	PageFailed          PageState = "FAILED"
)
