// Package command turns inbound UI messages into typed actions and
// dispatches them.
//
// Inbound messages have the form "<action>;<json>". The action is everything
// before the first ';'. Recognized actions:
//
//	install;{"location": "/opt/app"}   run the privileged install
//	launch;{"location": "/opt/app"}    start the installed runner and exit
//	close;                             cancel any install and exit
//
// Anything else is ignored. Malformed messages are reported to the UI as an
// ERR status instead of terminating the process.
package command
