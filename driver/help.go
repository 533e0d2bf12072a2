package driver

// ConfigHelp describes every configuration option of the wasix toolchain
// wrappers.  It is shared between the compiler wrapper's --help output and
// the wasixenv help-config command.
const ConfigHelp = `Configuration options can be provided on the command line using the
'-s' flag, or using environment variables prefixed with 'WASIXCC_',
or in the TOML file at $WASIXCC_CONFIG (default ~/.wasixcc/config.toml).
The following configuration options are available:
  SYSROOT=<PATH>           Set the sysroot location
  SYSROOT_PREFIX=<PREFIX>  Set the sysroot prefix, which is expected to
                           contain 3 subdirectories: 'sysroot',
                           'sysroot-eh', and 'sysroot-ehpic'.
  LLVM_LOCATION=<PATH>     Set the location of LLVM binaries which will be
                           invoked without a version suffix. If this option
                           is left out, LLVM binaries will be invoked with
                           a -21 version suffix (e.g. clang-21).
  BINARYEN_LOCATION=<PATH> Set the location of binaryen binaries. If this
                           option is left out, wasm-opt is invoked from the
                           environment.
  COMPILER_FLAGS=<FLAGS>   Extra flags to pass to the compiler, separated
                           by colons (':'). COMPILER_POST_FLAGS go after
                           the command-line flags; the _C and _CXX variants
                           apply to one language only.
  LINKER_FLAGS=<FLAGS>     Extra flags to pass to the linker, separated
                           by colons (':')
  INCLUDE_CPP_SYMBOLS=<BOOL>
                           Link the C++ runtime libraries even when the
                           linker wrapper is invoked directly.
  RUN_WASM_OPT=<BOOL>      Whether to run wasm-opt on the output of the
                           compiler. If this setting is left out, compiler
                           flags determine whether to run wasm-opt. If no
                           flags are found, default behavior is to run it.
  WASM_OPT_FLAGS=<FLAGS>   Extra flags to pass to wasm-opt, separated by
                           colons (':'). Specifying a non-empty list of
                           extra flags for wasm-opt implies RUN_WASM_OPT=yes
                           unless an explicit value is provided for
                           RUN_WASM_OPT.
  WASM_OPT_SUPPRESS_DEFAULT=<BOOL>
                           Whether to suppress the default flags passed to
                           wasm-opt. The default flags are:
                           * -O* for all modules. The optimization level is
                             determined by the -O flag passed to the
                             compiler.
                           * --emit-exnref for modules with exception
                             handling enabled, required for running the
                             module with engines that only support the
                             'new' exnref proposal.
                           * --asyncify for modules without exception
                             handling enabled, required for forks and
                             setjmp/longjmp to work.
  WASM_OPT_PRESERVE_UNOPTIMIZED=<BOOL>
                           Keep a copy of the linked output at
                           <output>.orig before wasm-opt rewrites it.
  MODULE_KIND=<KIND>       The kind of module to generate. This setting can
                           be guessed most of the time based on
                           compiler/linker flags. Valid values are:
                           * static-main: An executable main module with no
                             dynamic linking capability
                           * dynamic-main: A main module capable of loading
                             dynamically-linked side modules at runtime
                           * shared-library: A dynamically-linked side
                             module which can be loaded by a dynamic main
                           * object-file: An object file
  WASM_EXCEPTIONS=<BOOL>   Whether to enable WebAssembly exception handling
                           support. This value can be deduced from the
                           -fwasm-exceptions/-fno-wasm-exceptions flags
                           passed to the compiler.
  PIC=<BOOL>               Whether to enable position-independent code
                           (PIC), required for dynamic linking. PIC will be
                           enabled if module kind is dynamic-main or
                           shared-library, or if the -fPIC flag is passed
                           to the compiler.
  LINK_SYMBOLIC=<BOOL>     Whether to pass -Bsymbolic when linking a
                           shared library (default: yes).
`
