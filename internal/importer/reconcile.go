package importer

// reconcile.go classifies accepted records against a snapshot of existing
// records keyed by natural key. The engine only classifies; it never
// touches storage. The snapshot is treated as read-only.

import "sort"

// Reconcile classifies each accepted record as a create (key absent from
// the snapshot), update (key present), or skip (the matching action is
// disabled in opts). Updates merge field-by-field: incoming fields
// overwrite, fields the import did not supply are preserved, unless
// opts.ReplaceAll is set.
//
// With opts.ArchiveMissing, existing records whose key is absent from the
// accepted set are flagged for archival, in key order. Archival is a
// classification only, never a deletion.
func Reconcile(accepted []Record, snapshot map[string]Record, cfg ParseConfig, opts Options) ReconciliationSummary {
	summary := ReconciliationSummary{}
	seen := make(map[string]bool, len(accepted))

	for _, rec := range accepted {
		key := cfg.KeyOf(rec)
		seen[key] = true

		existing, exists := snapshot[key]
		switch {
		case exists && opts.UpdateExisting:
			summary.Updated++
			summary.Records = append(summary.Records, ClassifiedRecord{
				Action:   ActionUpdate,
				Key:      key,
				Record:   mergeRecords(existing, rec, opts.ReplaceAll),
				Incoming: rec,
			})
		case exists:
			summary.Skipped++
			summary.Records = append(summary.Records, ClassifiedRecord{
				Action:   ActionSkip,
				Key:      key,
				Record:   existing,
				Incoming: rec,
			})
		case opts.AddNew:
			summary.Created++
			summary.Records = append(summary.Records, ClassifiedRecord{
				Action:   ActionCreate,
				Key:      key,
				Record:   rec,
				Incoming: rec,
			})
		default:
			summary.Skipped++
			summary.Records = append(summary.Records, ClassifiedRecord{
				Action:   ActionSkip,
				Key:      key,
				Record:   rec,
				Incoming: rec,
			})
		}
	}

	if opts.ArchiveMissing {
		var absent []string
		for key := range snapshot {
			if !seen[key] {
				absent = append(absent, key)
			}
		}
		sort.Strings(absent)
		for _, key := range absent {
			summary.Archived++
			summary.Records = append(summary.Records, ClassifiedRecord{
				Action: ActionArchive,
				Key:    key,
				Record: snapshot[key],
			})
		}
	}

	return summary
}

// mergeRecords merges an incoming record onto an existing one. Fields the
// incoming record defines overwrite; everything else is preserved.
func mergeRecords(existing, incoming Record, replaceAll bool) Record {
	if replaceAll {
		return incoming.Clone()
	}
	merged := existing.Clone()
	for k, v := range incoming {
		if v != "" {
			merged[k] = v
		}
	}
	return merged
}
