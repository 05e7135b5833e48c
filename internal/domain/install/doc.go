// Package install performs the privileged installation step.
//
// An install writes <package_name>.desktop into the installer's working
// directory and then runs one elevated shell invocation (pkexec by default)
// that, in order:
//
//  1. creates the install location (mkdir -p)
//  2. copies the desktop entry into /usr/share/applications
//  3. copies the icon into the install location and marks it executable
//  4. copies every entry of the working directory into the install location
//
// The script text is constant. Paths reach the shell only as positional
// arguments, never by string interpolation. A failure at any step stops the
// chain and leaves the earlier steps applied; there is no rollback.
//
// Example Usage:
//
//	executor, err := install.NewExecutor(m, install.Options{WorkDir: wd}, logger)
//	if err != nil {
//		return err
//	}
//	msg := executor.Install(ctx, install.Request{Location: "/opt/app"})
//	// msg is status.Ok(stdout) or status.Err(diagnostic)
package install
