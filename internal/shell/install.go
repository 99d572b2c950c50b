package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	// ErrAlreadyInstalled is returned when trying to install a wrapper that's already installed
	ErrAlreadyInstalled = errors.New("wrapper already installed")

	// ErrNotInstalled is returned when trying to uninstall a wrapper that's not installed
	ErrNotInstalled = errors.New("wrapper not installed")
)

const (
	beginMarker = "# >>> awsps >>>"
	endMarker   = "# <<< awsps <<<"
	backupExt   = ".awsps-backup"
)

// FileSystem abstracts the file operations the installer performs.
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(filename string) ([]byte, error)
	WriteFile(filename string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Rename(oldpath, newpath string) error
}

// OSFileSystem implements FileSystem using the os package.
type OSFileSystem struct{}

func (fs *OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *OSFileSystem) ReadFile(filename string) ([]byte, error) {
	return os.ReadFile(filename)
}

func (fs *OSFileSystem) WriteFile(filename string, data []byte, perm os.FileMode) error {
	return os.WriteFile(filename, data, perm)
}

func (fs *OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fs *OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// InstallError represents an install failure with additional context
type InstallError struct {
	Shell SupportedShell
	Op    string // "install" or "uninstall"
	Path  string
	Err   error
}

func (e *InstallError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s wrapper for %s (%s): %v", e.Op, e.Shell, e.Path, e.Err)
	}
	return fmt.Sprintf("%s wrapper for %s: %v", e.Op, e.Shell, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// GetUserFriendlyMessage returns a user-friendly error message with a suggestion
func (e *InstallError) GetUserFriendlyMessage() string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("Failed to %s the aps function for %s", e.Op, e.Shell))

	switch {
	case errors.Is(e.Err, ErrAlreadyInstalled):
		msg.WriteString(": it is already installed in " + e.Path)
		msg.WriteString("\nUse --force to reinstall it.")
	case errors.Is(e.Err, ErrNotInstalled):
		msg.WriteString(": nothing installed in " + e.Path)
	case errors.Is(e.Err, ErrShellNotSupported):
		msg.WriteString("\nPrint it with 'awsps init' and add it to your shell configuration by hand.")
	case errors.Is(e.Err, os.ErrPermission):
		msg.WriteString(": permission denied")
		msg.WriteString(fmt.Sprintf("\nCheck the permissions of %s.", e.Path))
	default:
		msg.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return msg.String()
}

// Installer adds the aps function to, and removes it from, shell
// configuration files. The function is kept between marker comments so it
// can be replaced or removed without touching the rest of the file.
type Installer struct {
	fs     FileSystem
	home   string
	goos   string
	binary string
}

// InstallerOption configures an Installer.
type InstallerOption func(*Installer)

// WithInstallerFileSystem replaces the file system the installer writes to.
func WithInstallerFileSystem(fs FileSystem) InstallerOption {
	return func(i *Installer) { i.fs = fs }
}

// WithBinary sets the command the installed function runs.
func WithBinary(name string) InstallerOption {
	return func(i *Installer) { i.binary = name }
}

// NewInstaller returns an installer for configuration files under home.
func NewInstaller(home string, opts ...InstallerOption) *Installer {
	i := &Installer{
		fs:     &OSFileSystem{},
		home:   home,
		goos:   runtime.GOOS,
		binary: "awsps",
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// configCandidates returns the configuration files of shell, preferred first.
func (i *Installer) configCandidates(shell SupportedShell) ([]string, error) {
	switch shell {
	case ShellZsh:
		return []string{filepath.Join(i.home, ".zshrc")}, nil
	case ShellBash:
		if i.goos == "darwin" {
			return []string{
				filepath.Join(i.home, ".bash_profile"),
				filepath.Join(i.home, ".bashrc"),
			}, nil
		}
		return []string{
			filepath.Join(i.home, ".bashrc"),
			filepath.Join(i.home, ".bash_profile"),
		}, nil
	case ShellSh:
		return []string{filepath.Join(i.home, ".profile")}, nil
	case ShellFish:
		return []string{filepath.Join(i.home, ".config", "fish", "config.fish")}, nil
	case ShellCsh:
		return []string{filepath.Join(i.home, ".cshrc")}, nil
	case ShellTcsh:
		return []string{
			filepath.Join(i.home, ".tcshrc"),
			filepath.Join(i.home, ".cshrc"),
		}, nil
	case ShellPowerShell:
		if i.goos == "windows" {
			return []string{
				filepath.Join(i.home, "Documents", "PowerShell", "Microsoft.PowerShell_profile.ps1"),
				filepath.Join(i.home, "Documents", "WindowsPowerShell", "Microsoft.PowerShell_profile.ps1"),
			}, nil
		}
		return []string{filepath.Join(i.home, ".config", "powershell", "Microsoft.PowerShell_profile.ps1")}, nil
	default:
		return nil, ErrShellNotSupported
	}
}

// ConfigPath returns the first existing configuration file of shell, or the
// preferred one when none exists yet.
func (i *Installer) ConfigPath(shell SupportedShell) (string, error) {
	candidates, err := i.configCandidates(shell)
	if err != nil {
		return "", err
	}
	for _, c := range candidates {
		if _, err := i.fs.Stat(c); err == nil {
			return c, nil
		}
	}
	return candidates[0], nil
}

// IsInstalled reports whether the configuration file of shell holds the block.
func (i *Installer) IsInstalled(shell SupportedShell) (bool, error) {
	path, err := i.ConfigPath(shell)
	if err != nil {
		return false, err
	}
	content, err := i.read(path)
	if err != nil {
		return false, err
	}
	_, found := stripBlock(content)
	return found, nil
}

// Install appends the aps function to the configuration file of shell and
// returns the file path. An existing block is replaced only when force is set.
// The previous file content is kept next to it with a .awsps-backup suffix.
func (i *Installer) Install(shell SupportedShell, force bool) (string, error) {
	fail := func(path string, err error) (string, error) {
		return path, &InstallError{Shell: shell, Op: "install", Path: path, Err: err}
	}

	fn, err := WrapperFunction(shell, i.binary)
	if err != nil {
		return fail("", err)
	}
	path, err := i.ConfigPath(shell)
	if err != nil {
		return fail("", err)
	}

	content, err := i.read(path)
	if err != nil {
		return fail(path, err)
	}
	rest, found := stripBlock(content)
	if found && !force {
		return fail(path, ErrAlreadyInstalled)
	}

	if content != "" {
		if err := i.write(path+backupExt, content); err != nil {
			return fail(path, fmt.Errorf("backup: %w", err))
		}
	}

	if rest != "" && !strings.HasSuffix(rest, "\n") {
		rest += "\n"
	}
	if rest != "" {
		rest += "\n"
	}
	updated := rest + beginMarker + "\n" + fn + endMarker + "\n"

	if err := i.write(path, updated); err != nil {
		return fail(path, err)
	}
	return path, nil
}

// Uninstall removes the aps function block and returns the file path.
func (i *Installer) Uninstall(shell SupportedShell) (string, error) {
	fail := func(path string, err error) (string, error) {
		return path, &InstallError{Shell: shell, Op: "uninstall", Path: path, Err: err}
	}

	path, err := i.ConfigPath(shell)
	if err != nil {
		return fail("", err)
	}
	content, err := i.read(path)
	if err != nil {
		return fail(path, err)
	}
	rest, found := stripBlock(content)
	if !found {
		return fail(path, ErrNotInstalled)
	}
	if err := i.write(path, rest); err != nil {
		return fail(path, err)
	}
	return path, nil
}

func (i *Installer) read(path string) (string, error) {
	data, err := i.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// write replaces path through a temporary file so a failed write never
// leaves a truncated configuration file behind.
func (i *Installer) write(path, content string) error {
	if err := i.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := i.fs.WriteFile(tmp, []byte(content), 0644); err != nil {
		return err
	}
	return i.fs.Rename(tmp, path)
}

// stripBlock removes the marked block, and the blank line Install puts before
// it, from content.
func stripBlock(content string) (string, bool) {
	start := strings.Index(content, beginMarker)
	if start < 0 {
		return content, false
	}
	end := strings.Index(content[start:], endMarker)
	if end < 0 {
		return content, false
	}
	end += start + len(endMarker)
	if end < len(content) && content[end] == '\n' {
		end++
	}

	before := content[:start]
	if strings.HasSuffix(before, "\n\n") {
		before = before[:len(before)-1]
	}
	return before + content[end:], true
}
