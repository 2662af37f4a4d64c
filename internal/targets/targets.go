// Package targets resolves the set of buckets a sweep run will process.
//
// Targets come from one of two sources: an explicit buckets file (one name
// per line, trusted verbatim) or the account's bucket listing narrowed by a
// name-prefix filter and an exclude regex. The file source is authoritative;
// filters are never applied to it.
package targets

import (
	"bufio"
	"context"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	sweeperrors "github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/sweeptypes"
)

// Lister enumerates candidate buckets for a sweep run.
type Lister struct {
	client s3api.S3API
	fs     fs.Filesystem
}

// New creates a new Lister. The filesystem is used only when a buckets
// file is configured; pass nil when targets always come from the account.
func New(client s3api.S3API, filesystem fs.Filesystem) *Lister {
	return &Lister{
		client: client,
		fs:     filesystem,
	}
}

// List resolves the target buckets for the given configuration, in a
// stable order: file order for a buckets file, listing order otherwise.
func (l *Lister) List(ctx context.Context, cfg *sweeptypes.Config) ([]string, error) {
	if cfg.BucketsFile != "" {
		return l.fromFile(cfg.BucketsFile)
	}

	names, err := l.fromAccount(ctx)
	if err != nil {
		return nil, err
	}

	return Filter(names, cfg.IncludePrefix, cfg.ExcludeMatcher()), nil
}

// fromFile reads bucket names from a file, one per line. Blank lines and
// lines starting with '#' are skipped; everything else is trusted verbatim.
func (l *Lister) fromFile(path string) ([]string, error) {
	file, err := l.fs.Open(path)
	if err != nil {
		return nil, sweeperrors.NewError("listTargets", err).
			WithMessage("cannot open buckets file " + path)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, sweeperrors.NewError("listTargets", err).
			WithMessage("cannot read buckets file " + path)
	}

	return names, nil
}

// fromAccount queries the storage account for every bucket it owns.
// A failure here is fatal for the whole run: without a listing there is
// nothing to target.
func (l *Lister) fromAccount(ctx context.Context) ([]string, error) {
	output, err := l.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, sweeperrors.NewError("listTargets", sweeperrors.ErrListing).
			WithMessage(err.Error())
	}

	names := make([]string, 0, len(output.Buckets))
	for _, bucket := range output.Buckets {
		names = append(names, aws.ToString(bucket.Name))
	}

	return names, nil
}

// Filter narrows bucket names to those matching the include prefix (an
// empty prefix matches all) and not matching the exclude regex (a nil
// regex excludes nothing). Order is preserved.
func Filter(names []string, includePrefix string, exclude *regexp.Regexp) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if includePrefix != "" && !strings.HasPrefix(name, includePrefix) {
			continue
		}
		if exclude != nil && exclude.MatchString(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}
