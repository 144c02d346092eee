//go:build unix && !linux

package main

import "golang.org/x/sys/unix"

func dupFD(oldfd, newfd int) error { return unix.Dup2(oldfd, newfd) }
