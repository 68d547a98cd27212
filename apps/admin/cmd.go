package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/kazlaw/shule/core/sysconfig"
	"github.com/kazlaw/shule/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sqlx.DB
	usrRepo    user.Repository
	sysCfgRepo sysconfig.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -name NAME -username USERNAME -email EMAIL -role ROLE [-mobile MOBILE] - provision an account (password prompted)")
	fmt.Println("  togglelogin                                                                    - flip the global login gate")
	fmt.Println("  toggleregistration                                                             - flip the global admin-registration gate")
	fmt.Println("  migrate                                                                        - bring the database schema up to date")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The account holder's full name.")
	addUserUname := addUserCmd.String("username", "", "The account's username.")
	addUserEmail := addUserCmd.String("email", "", "The account's email address.")
	addUserMobile := addUserCmd.String("mobile", "", "The account's mobile number.")
	addUserRole := addUserCmd.String("role", "", "One of: student, teacher, admin, superadmin.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserUname == "" || *addUserEmail == "" || *addUserRole == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserUname, *addUserEmail, *addUserMobile, user.Role(*addUserRole), string(pwd))
	case "togglelogin":
		return cli.toggleLogin()
	case "toggleregistration":
		return cli.toggleRegistration()
	case "migrate":
		return cli.migrate()
	default:
		cli.printUsage()
		return errHelp
	}
}
