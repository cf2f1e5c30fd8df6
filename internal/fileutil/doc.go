// Package fileutil provides directory scanning helpers for locating raw
// assay-data files (tracking CSVs, grooming score sheets, per-subject
// trajectory folders).
package fileutil
