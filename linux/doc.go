// Package linux computes ioctl request codes the way the Linux
// _IO/_IOR/_IOW/_IOWR/_IOC macros do, for every architecture family
// the kernel knows about. Layouts differ in how many bits go to the
// size and direction fields, so codes must be built with the layout of
// the kernel they will be sent to.
package linux
