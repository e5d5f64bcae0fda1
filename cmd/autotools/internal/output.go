package internal

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// printPkgConfigInfo asks pkg-config for the compile and link flags of every
// package installed under prefix/lib/pkgconfig.
func printPkgConfigInfo(w io.Writer, prefix string) error {
	pcDir := filepath.Join(prefix, "lib", "pkgconfig")
	entries, err := os.ReadDir(pcDir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".pc"); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}

	searchPath := pcDir
	if old := os.Getenv("PKG_CONFIG_PATH"); old != "" {
		searchPath += string(os.PathListSeparator) + old
	}
	for _, name := range names {
		cmd := exec.Command("pkg-config", "--libs", "--cflags", name)
		cmd.Env = append(os.Environ(), "PKG_CONFIG_PATH="+searchPath)
		out, err := cmd.Output()
		if err != nil {
			continue
		}
		if flags := strings.TrimSpace(string(out)); flags != "" {
			fmt.Fprintf(w, "%s: %s\n", name, flags)
		}
	}
	return nil
}

// outputResult copies the install tree at prefix to dest, which is a
// directory or, when it ends in ".zip", an archive. buildDir is left out
// when it lies inside prefix. Symlinks are kept as symlinks.
func outputResult(prefix, dest, buildDir string) error {
	skip := ""
	if rel, err := filepath.Rel(prefix, buildDir); buildDir != "" && err == nil &&
		rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		skip = buildDir
	}
	if strings.HasSuffix(dest, ".zip") {
		return zipDir(prefix, dest, skip)
	}
	return copyTree(prefix, dest, skip)
}

// walkTree visits every entry below root except skip and dest, without
// following symlinks.
func walkTree(root, skip, dest string, fn func(path, rel string, d fs.DirEntry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == skip || path == dest {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return fn(path, rel, d)
	})
}

func copyTree(srcDir, dest, skip string) error {
	return walkTree(srcDir, skip, dest, func(path, rel string, d fs.DirEntry) error {
		target := filepath.Join(dest, rel)
		switch mode := d.Type(); {
		case mode.IsDir():
			return os.MkdirAll(target, 0o755)
		case mode&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case !mode.IsRegular():
			return nil
		}
		return copyFile(path, target, d)
	})
}

func copyFile(src, dest string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func zipDir(srcDir, dest, skip string) (err error) {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(f)
	err = walkTree(srcDir, skip, dest, func(path, rel string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		mode := info.Mode()
		if !mode.IsRegular() && mode&fs.ModeSymlink == 0 {
			return nil
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if mode.IsRegular() {
			hdr.Method = zip.Deflate
		}
		zf, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		// a symlink entry stores its target as the file body
		if mode&fs.ModeSymlink != 0 {
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			_, err = io.WriteString(zf, link)
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(zf, src)
		return err
	})
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	return err
}
