package classify

// Exports for testing.
var DecodeHuggingFacePredictions = decodeHuggingFacePredictions
