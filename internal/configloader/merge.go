package configloader

import "github.com/yaklabco/hyperseq/pkg/config"

// merge returns a copy of base with the fields override sets laid over it.
// Strings and numbers count as set when non-zero, bool pointers when
// non-nil (so a later source can switch a default off) and slices when
// non-nil, in which case they replace the base slice whole.
func merge(base, override *config.Config) *config.Config {
	switch {
	case base == nil:
		return override
	case override == nil:
		return base
	}

	out := base.Clone()
	setString(&out.Snapshot, override.Snapshot)
	setString(&out.LogLevel, override.LogLevel)
	setString(&out.Format, override.Format)
	out.Force = out.Force || override.Force

	setString(&out.Tokenizer.Normalize, override.Tokenizer.Normalize)
	setBool(&out.Tokenizer.Lowercase, override.Tokenizer.Lowercase)
	setBool(&out.Tokenizer.Markdown, override.Tokenizer.Markdown)

	setString(&out.Ingest.Unit, override.Ingest.Unit)
	if override.Ingest.Jobs != 0 {
		out.Ingest.Jobs = override.Ingest.Jobs
	}
	setSlice(&out.Ingest.Extensions, override.Ingest.Extensions)
	setSlice(&out.Ingest.Ignore, override.Ingest.Ignore)
	setBool(&out.Ingest.Stream, override.Ingest.Stream)
	setBool(&out.Ingest.FollowSymlinks, override.Ingest.FollowSymlinks)

	setString(&out.Backups.Mode, override.Backups.Mode)
	return out
}

func setString[S ~string](dst *S, v S) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst **bool, v *bool) {
	if v != nil {
		*dst = config.Bool(*v)
	}
}

func setSlice(dst *[]string, v []string) {
	if v != nil {
		*dst = append([]string(nil), v...)
	}
}
