/*
Package shell implements a line-oriented command interpreter over the virtual filesystem.

Each call to Execute takes one raw command line and returns the text a terminal should
print. Errors never cross the boundary; they are rendered the way a POSIX shell would
print them ("cat: /x: No such file or directory").

Features:
  - Filesystem commands: ls, cd, pwd, mkdir, touch, rm, cp, mv, cat, find, file
  - Text commands: echo with > and >> redirection, grep, wc, head, tail
  - Synthetic system commands: whoami, uname, date, uptime, ps, top, df, free
  - Simulated network commands: ping, curl, wget

Per-command flags are parsed with pflag, so short clusters such as -la and -rf work.

The interpreter keeps no state of its own besides the session's current directory
and is not safe for concurrent use; callers serialize access to the shared store.

Example Usage:

	store := vfs.New()
	sess := vfs.NewSession(vfs.HomePath)
	sh := shell.New(store, sess)

	fmt.Print(sh.Prompt())
	fmt.Println(sh.Execute("ls -la"))
*/
package shell
