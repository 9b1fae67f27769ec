package xlog

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/safearchive/zip"
	"github.com/google/safeopen"
	"go.uber.org/multierr"

	"github.com/benz9527/xvlist/lib/infra"
)

type fileSizeUnit uint64

const (
	B fileSizeUnit = 1 << (10 * iota)
	KB
	MB
	_maxSize = 1024 * MB
)

type fileAgeUnit int64

const (
	backupDateTimeFormat             = "2006_01_02T15_04_05.999999999_Z07_00"
	Second               fileAgeUnit = fileAgeUnit(time.Duration(1 * time.Second))
	Minute               fileAgeUnit = fileAgeUnit(time.Duration(1 * time.Minute))
	Hour                 fileAgeUnit = fileAgeUnit(time.Duration(1 * time.Hour))
	Day                  fileAgeUnit = fileAgeUnit(time.Duration(1 * time.Hour * 24))
	_maxFileAge                      = 2 * 7 * Day
)

var (
	fileSizeRegexp = regexp.MustCompile(`^(\d+)(([kK]|[mM])?[bB])$`)
	fileAgeRegexp  = regexp.MustCompile(`^(\d+)(s|[sS]ec|[mM]in|[hH](our[s]?)?|[dD](ay[s]?)?)$`)
)

func parseFileSize(size string) (uint64, error) {
	m := fileSizeRegexp.FindStringSubmatch(size)
	if m == nil {
		return 0, infra.NewErrorStack("invalid file size unit")
	}
	unit := B
	switch strings.ToUpper(m[2]) {
	case "KB":
		unit = KB
	case "MB":
		unit = MB
	}
	n, _ := strconv.ParseUint(m[1], 10, 64)
	return n * uint64(unit), nil
}

func parseFileAge(age string) (time.Duration, error) {
	m := fileAgeRegexp.FindStringSubmatch(age)
	if m == nil {
		return 0, infra.NewErrorStack("invalid file age unit")
	}
	var unit fileAgeUnit
	switch strings.ToUpper(m[2]) {
	case "S", "SEC":
		unit = Second
	case "M", "MIN":
		unit = Minute
	case "H", "HOUR", "HOURS":
		unit = Hour
	case "D", "DAY", "DAYS":
		unit = Day
	}
	n, _ := strconv.ParseInt(m[1], 10, 64)
	d := time.Duration(n) * time.Duration(unit)
	if d >= time.Duration(_maxFileAge) {
		d = time.Duration(_maxFileAge)
	}
	return d, nil
}

var _ io.WriteCloser = (*rotateLog)(nil)

// rotateLog appends to one live log file and renames it away once it
// outgrows maxSize. A directory watcher picks up every rename and
// sweeps backups that exceed the age or count limits, zipping them
// when compression is on.
type rotateLog struct {
	ctx               context.Context
	filePath          string
	filename          string
	fileMaxSize       string
	fileMaxAge        string
	fileZipName       string
	maxSize           uint64
	wroteSize         uint64
	mkdirOnce         sync.Once
	currentFile       atomic.Pointer[os.File]
	fileWatcher       atomic.Pointer[fsnotify.Watcher]
	fileMaxBackups    int
	fileCompressBatch int
	fileCompressible  bool
}

func (log *rotateLog) Write(p []byte) (n int, err error) {
	select {
	case <-log.ctx.Done():
		return 0, io.EOF
	default:
	}

	if log.currentFile.Load() == nil {
		if err := log.openOrCreate(); err != nil {
			return 0, err
		}
	}
	if log.wroteSize+uint64(len(p)) > log.maxSize {
		// The entry that crosses the limit still lands in the old
		// file, then the file is rotated out.
		if n, err = log.currentFile.Load().Write(p); err != nil {
			return
		}
		err = log.rotate()
		return
	}

	n, err = log.currentFile.Load().Write(p)
	log.wroteSize += uint64(n)
	return
}

func (log *rotateLog) Close() error {
	if log.currentFile.Load() == nil {
		return nil
	}
	if err := log.currentFile.Load().Close(); err != nil {
		return err
	}
	log.currentFile.Store(nil)
	return nil
}

func (log *rotateLog) initialize() error {
	if log.fileWatcher.Load() != nil {
		return nil
	}

	size, err := parseFileSize(log.fileMaxSize)
	if err != nil {
		reportRotateError(err)
		return err
	}
	log.maxSize = size

	if _, err = parseFileAge(log.fileMaxAge); err != nil {
		reportRotateError(err)
		return err
	}

	var watcher *fsnotify.Watcher
	if watcher, err = fsnotify.NewWatcher(); err != nil {
		reportRotateError(infra.WrapErrorStackWithMessage(err, "failed to create file watcher"))
		return err
	}
	log.fileWatcher.Store(watcher)

	if err = log.fileWatcher.Load().Add(log.filePath); err != nil {
		reportRotateError(infra.WrapErrorStackWithMessage(err, "failed to add log directory to watcher"))
		return err
	}

	go log.watchAndSweep()
	return nil
}

func (log *rotateLog) mkdir() error {
	var err error = nil
	log.mkdirOnce.Do(func() {
		if log.filePath == "" {
			log.filePath = os.TempDir()
		}
		if log.filePath == os.TempDir() {
			return
		}
		err = os.MkdirAll(log.filePath, 0o644)
	})
	return infra.WrapErrorStack(err)
}

// backup renames the live log file aside, stamped with the rotation
// time. The rename in the watched directory is what wakes the sweeper.
func (log *rotateLog) backup() error {
	ext := filepath.Ext(log.filename)
	prefix := strings.TrimSuffix(log.filename, ext)
	ts := time.Now().UTC().Format(backupDateTimeFormat)
	pathToBackup := filepath.Join(log.filePath, prefix+"_"+ts+ext)
	if err := log.currentFile.Load().Close(); err != nil {
		return infra.WrapErrorStackWithMessage(err, "failed to backup current log: "+filepath.Join(log.filePath, log.filename))
	}
	return os.Rename(filepath.Join(log.filePath, log.filename), pathToBackup)
}

func (log *rotateLog) create() error {
	if err := log.mkdir(); err != nil {
		return err
	}

	f, err := safeopen.OpenFileBeneath(log.filePath, log.filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return infra.WrapErrorStackWithMessage(err, "unable to create new log file: "+filepath.Join(log.filePath, log.filename))
	}
	log.currentFile.Store(f)
	log.wroteSize = 0
	return nil
}

func (log *rotateLog) rotate() error {
	if err := log.backup(); err != nil {
		return err
	}
	return log.create()
}

func (log *rotateLog) openOrCreate() error {
	if err := log.mkdir(); err != nil {
		return err
	}

	pathToLog := filepath.Join(log.filePath, log.filename)
	info, err := os.Stat(pathToLog)
	if os.IsNotExist(err) {
		var merr error
		merr = multierr.Append(merr, err)
		if err = log.create(); err != nil {
			return multierr.Append(merr, err)
		}
		return log.initialize()
	} else if err != nil {
		log.currentFile.Store(nil)
		return infra.WrapErrorStack(err)
	}

	if info.IsDir() {
		log.currentFile.Store(nil)
		return infra.NewErrorStack("log file <" + pathToLog + "> is a dir")
	}

	var f *os.File
	if f, err = safeopen.OpenFileBeneath(log.filePath, log.filename, os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
		var merr error = infra.WrapErrorStackWithMessage(err, "unable to access log file: "+pathToLog)
		if err = log.rotate(); err != nil {
			return infra.WrapErrorStackWithMessage(multierr.Combine(merr, err), "failed to backup then open new log file: "+pathToLog)
		}
	}
	log.currentFile.Store(f)
	log.wroteSize = uint64(info.Size())
	return log.initialize()
}

// watchAndSweep reacts to every file created (renamed) in the log
// directory: expire backups past the age limit, trim the excess over
// the backup count, then delete or zip the casualties. Runs until the
// context is cancelled.
func (log *rotateLog) watchAndSweep() {
	ext := filepath.Ext(log.filename)
	prefix := log.filename[:len(log.filename)-len(ext)]
	maxAge, _ := parseFileAge(log.fileMaxAge)
	for {
		select {
		case <-log.ctx.Done():
			_ = log.Close()
			reportRotateError(log.fileWatcher.Load().Close())
			log.fileWatcher.Store(nil)
			return
		case event, ok := <-log.fileWatcher.Load().Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			backups, err := log.listBackups(prefix, ext)
			if err != nil || len(backups) <= 0 {
				reportRotateError(err)
				continue
			}
			expired, rest := splitByAge(time.Now().UTC(), prefix, ext, maxAge, backups)
			expired = dropBeyondBackups(expired, rest, log.fileMaxBackups)
			if !log.fileCompressible {
				for _, info := range expired {
					_ = os.Remove(filepath.Join(log.filePath, filepath.Base(info.Name())))
				}
				continue
			}
			if len(expired) < log.fileCompressBatch {
				continue
			}
			if err := archiveIntoZip(log.filePath, log.fileZipName, expired); err != nil {
				reportRotateError(err)
			}
		case err, ok := <-log.fileWatcher.Load().Errors:
			if !ok {
				return
			}
			reportRotateError(err)
		}
	}
}

// listBackups collects the rotated-out siblings of the live log file.
func (log *rotateLog) listBackups(prefix, ext string) ([]fs.FileInfo, error) {
	entries, err := os.ReadDir(log.filePath)
	if err != nil || len(entries) == 0 {
		return nil, infra.WrapErrorStack(err)
	}
	backups := make([]os.FileInfo, 0, 16)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filename := entry.Name()
		if !strings.HasPrefix(filename, prefix) || !strings.HasSuffix(filename, ext) || filename == log.filename {
			continue
		}
		if info, err := entry.Info(); err == nil && info != nil {
			backups = append(backups, info)
		}
	}
	return backups, nil
}

// RotateLog builds a size-rotated log file writer. The writer and its
// directory watcher shut down when ctx is done.
func RotateLog(ctx context.Context, cfg *FileCoreConfig) io.WriteCloser {
	if cfg == nil || ctx == nil {
		return nil
	}
	w := &rotateLog{
		filename:          cfg.Filename,
		filePath:          cfg.FilePath,
		fileCompressible:  cfg.FileCompressible,
		fileCompressBatch: cfg.FileCompressBatch,
		fileMaxAge:        cfg.FileMaxAge,
		fileZipName:       cfg.FileZipName,
		fileMaxSize:       cfg.FileMaxSize,
		fileMaxBackups:    cfg.FileMaxBackups,
		ctx:               ctx,
	}
	if err := w.initialize(); err != nil {
		return nil
	}
	return w
}

// splitByAge partitions the backups by the rotation timestamp embedded
// in each filename. Files whose stamp does not parse are left alone.
func splitByAge(now time.Time, prefix, ext string, maxAge time.Duration, backups []fs.FileInfo) ([]fs.FileInfo, []fs.FileInfo) {
	expired := make([]os.FileInfo, 0, 16)
	rest := make([]os.FileInfo, 0, 16)
	for _, info := range backups {
		filename := filepath.Base(info.Name())
		if !strings.HasPrefix(filename, prefix) || !strings.HasSuffix(filename, ext) {
			continue
		}
		ts := strings.TrimSuffix(strings.TrimPrefix(filename, prefix+"_"), ext)
		dateTime, err := time.Parse(backupDateTimeFormat, ts)
		if err != nil {
			continue
		}
		if now.Sub(dateTime) > maxAge {
			expired = append(expired, info)
		} else {
			rest = append(rest, info)
		}
	}
	return expired, rest
}

func reportRotateError(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[XLogger] rolling file occurs error: %s\n", err)
	}
}

// dropBeyondBackups moves the oldest fresh backups over to the expired
// pile until at most maxBackups remain.
func dropBeyondBackups(expired, rest []fs.FileInfo, maxBackups int) []fs.FileInfo {
	redundant := len(rest) - maxBackups
	if redundant <= 0 {
		return expired
	}
	sort.Slice(rest, func(i, j int) bool {
		// A manually touched backup sorts out of rotation order.
		return rest[i].ModTime().Before(rest[j].ModTime())
	})
	return append(expired, rest[:redundant]...)
}

// archiveIntoZip folds the expired backups into the single zip
// archive, merging in the content of any previous archive.
func archiveIntoZip(filePath, zipName string, expired []fs.FileInfo) error {
	var (
		logZip  *os.File
		prevZip *zip.ReadCloser
	)
	info, err := os.Stat(filepath.Join(filePath, zipName))
	if err == nil && !info.IsDir() {
		// A previous archive exists; build the merged zip aside and
		// swap it in afterwards.
		if logZip, err = safeopen.OpenFileBeneath(filePath, "xlog-tmp.zip", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644); err != nil {
			return err
		}
		if prevZip, err = zip.OpenReader(filepath.Join(filePath, zipName)); err != nil {
			return err
		}
	} else {
		if logZip, err = os.Create(filepath.Join(filePath, zipName)); err != nil {
			return err
		}
	}
	zipWriter := zip.NewWriter(logZip)
	for _, info := range expired {
		filename := filepath.Base(info.Name())
		file, err := safeopen.OpenBeneath(filePath, filename)
		if err != nil {
			continue
		}
		if zipFile, err := zipWriter.Create(filename); err == nil {
			if _, err = io.Copy(zipFile, file); err == nil {
				_ = file.Close()
				file = nil
				if err = os.Remove(filepath.Join(filePath, filename)); err != nil {
					reportRotateError(err)
				}
			}
		}
		if file != nil {
			_ = file.Close()
		}
	}
	if prevZip != nil {
		prevZip.SetSecurityMode(prevZip.GetSecurityMode() | zip.MaximumSecurityMode)
		for _, f := range prevZip.File {
			oldReader, err := f.Open()
			if err != nil || f.Mode().IsDir() {
				if oldReader != nil {
					_ = oldReader.Close()
				}
				continue
			}

			header := &zip.FileHeader{
				Name:   f.Name,
				Method: f.Method,
			}
			if zipFile, err := zipWriter.CreateHeader(header); err == nil {
				if _, err = io.Copy(zipFile, oldReader); err == nil {
					_ = oldReader.Close()
				}
			}
			if oldReader != nil {
				_ = oldReader.Close()
			}
		}
		if err := zipWriter.Flush(); err != nil {
			return err
		}
	}
	_ = zipWriter.Close()
	_ = logZip.Close()
	if prevZip != nil {
		_ = prevZip.Close()
		if err = os.Remove(filepath.Join(filePath, zipName)); err != nil {
			reportRotateError(err)
		}
		if err := os.Rename(filepath.Join(filePath, "xlog-tmp.zip"), filepath.Join(filePath, zipName)); err != nil {
			reportRotateError(err)
		}
	}
	return nil
}
