// Package avr implements hal.Platform for the ATmega32U4-class reference
// target, the TinyGo register-level HAL original_source/main.c wrote by
// hand in C. It follows the teacher's atsamd51 example's idiom of
// runtime/volatile registers over unsafe.Pointer arithmetic, adapted here
// to the toolchain-supplied device/avr register definitions and the
// device package's inline-assembly helpers (device.Asm) for the single
// instructions Go has no other way to express: spm (self-program), lpm
// (program-memory read), sei/cli (global interrupt enable/disable), and
// jmp (the jump to the application).
//
// Every file in this package is gated by the tinygo and avr build tags;
// it never compiles into board/sim-backed host tests.
package avr
