// internal/ingest/namer.go
//
// Formgate – Ingestion subsystem: attachment key assignment.
//
// Context
//   Every uploaded file needs a unique key within its SubmissionRecord.  The
//   naming rules, applied in order:
//
//     1.  With an override prefix configured, the key is the prefix plus a
//         zero-based counter that increments once per file across the whole
//         submission, regardless of field.
//     2.  Otherwise start from the field name, stripping a trailing "[]"
//         array marker.
//     3.  If the field produced more than one file, append a zero-based
//         counter local to that field.
//     4.  Otherwise the stripped name is used unmodified.
//
//   Two differently-named fields can reduce to the same stripped name
//   ("photos" and "photos[]").  That ambiguity is rejected as a
//   NamingCollisionError rather than silently overwriting bytes.
//
//------------------------------------------------------------------------------

package ingest

import (
	"strconv"
	"strings"
)

// NamingCollisionError reports two attachments resolving to the same key
// within one submission.
type NamingCollisionError struct{ Key string }

func (e *NamingCollisionError) Error() string {
	return "attachment key collision: " + e.Key
}

// AssignKey computes the key for one file given its field name, its
// zero-based position within that field, whether the field yielded multiple
// files, the optional override prefix, and the zero-based global counter.
func AssignKey(fieldName string, indexWithinField int, isMultiValued bool, overridePrefix string, globalIndex int) string {
	if overridePrefix != "" {
		return overridePrefix + strconv.Itoa(globalIndex)
	}
	name := strings.TrimSuffix(fieldName, "[]")
	if isMultiValued {
		return name + strconv.Itoa(indexWithinField)
	}
	return name
}

// NameAll maps every upload to its attachment key.  Multiplicity is counted
// first so the very first file of a multi-file field already gets its "0"
// suffix.  A key collision aborts the whole mapping.
func NameAll(files []FileUpload, overridePrefix string) (map[string]Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}

	perField := make(map[string]int, len(files))
	for _, f := range files {
		perField[f.FieldName]++
	}

	out := make(map[string]Attachment, len(files))
	indexes := make(map[string]int, len(perField))
	for global, f := range files {
		idx := indexes[f.FieldName]
		indexes[f.FieldName]++

		key := AssignKey(f.FieldName, idx, perField[f.FieldName] > 1, overridePrefix, global)
		if _, dup := out[key]; dup {
			return nil, &NamingCollisionError{Key: key}
		}
		out[key] = Attachment{
			Data:     f.Data,
			FileName: f.FileName,
			MimeType: f.ContentType,
			Size:     int64(len(f.Data)),
		}
	}
	return out, nil
}
